package util

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationCursor(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 8, 30, 15, 123456000, time.FixedZone("CST", 8*3600))
	cursor := EncodeRelationCursor(createdAt, "u_42")

	gotAt, gotID, err := DecodeRelationCursor(cursor)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotAt))
	assert.Equal(t, "u_42", gotID)
}

func TestDecodeRelationCursorMalformed(t *testing.T) {
	for _, c := range []string{
		"***",
		rawCursor(`{"a":1}`),
		rawCursor(`["2025-03-01T08:30:15Z"]`),
		rawCursor(`["yesterday","u_1"]`),
	} {
		_, _, err := DecodeRelationCursor(c)
		assert.ErrorIs(t, err, ErrCursorMalformed, c)
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Alice", "al"))
	assert.True(t, ContainsFold("Alan", "AL"))
	assert.False(t, ContainsFold("Alan", "ali"))
	assert.True(t, ContainsFold("Bob", ""))
}

func rawCursor(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}
