package util

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/goccy/go-json"
)

var ErrCursorMalformed = errors.New("malformed cursor")

// EncodeRelationCursor 将 (created_at, user_id) 编码为 URL 安全的 Base64 字符串
func EncodeRelationCursor(createdAt time.Time, userID string) string {
	b, _ := json.Marshal([]string{createdAt.UTC().Format(time.RFC3339Nano), userID})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeRelationCursor 解码 EncodeRelationCursor 生成的游标
func DecodeRelationCursor(cursor string) (time.Time, string, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", ErrCursorMalformed
	}
	var pair []string
	if err = json.Unmarshal(b, &pair); err != nil || len(pair) != 2 {
		return time.Time{}, "", ErrCursorMalformed
	}
	createdAt, err := time.Parse(time.RFC3339Nano, pair[0])
	if err != nil {
		return time.Time{}, "", ErrCursorMalformed
	}
	return createdAt, pair[1], nil
}
