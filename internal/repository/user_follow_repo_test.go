package repository

import (
	"context"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"mysql 1062", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '1-2'"}, true},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"wrapped 1062", errors.Wrap(&mysqldriver.MySQLError{Number: 1062}, "insert"), true},
		{"wrapped translated", errors.Wrap(gorm.ErrDuplicatedKey, "insert"), true},
		{"other mysql error", &mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found"}, false},
		{"plain error", errors.New("connection refused"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, isDuplicateKey(c.err))
		})
	}
}

type capturedSQL struct {
	sql     string
	vars    []interface{}
	explain string
}

// newDryRunRepo 只生成 SQL 不连接数据库，查询语句被记录下来
func newDryRunRepo(t *testing.T) (UserFollowRepo, *[]capturedSQL) {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "sportsx:sportsx@tcp(127.0.0.1:3306)/sportsx?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	captured := make([]capturedSQL, 0)
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		sql := tx.Statement.SQL.String()
		captured = append(captured, capturedSQL{
			sql:     sql,
			vars:    append([]interface{}{}, tx.Statement.Vars...),
			explain: tx.Dialector.Explain(sql, tx.Statement.Vars...),
		})
	})
	require.NoError(t, err)
	return NewUserFollowRepo(db), &captured
}

func last(t *testing.T, captured *[]capturedSQL) capturedSQL {
	t.Helper()
	require.NotEmpty(t, *captured)
	return (*captured)[len(*captured)-1]
}

var cursorAt = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func cursorQueries() map[string]EdgeQuery {
	cursorID := uint64(7)
	return map[string]EdgeQuery{
		"no cursor":      {Limit: 5},
		"timestamp only": {CursorCreatedAt: &cursorAt, Limit: 5},
		"timestamp id":   {CursorCreatedAt: &cursorAt, CursorID: &cursorID, Limit: 5},
		// 只有 cursor_id 时忽略游标
		"id only": {CursorID: &cursorID, Limit: 5},
	}
}

func assertKeyset(t *testing.T, name string, got capturedSQL, timeCol, idCol string) {
	t.Helper()
	full := "(" + timeCol + " > ? OR (" + timeCol + " = ? AND " + idCol + " > ?))"
	switch name {
	case "no cursor", "id only":
		assert.NotContains(t, got.sql, timeCol+" >")
		assert.NotContains(t, got.sql, " OR ")
	case "timestamp only":
		assert.Contains(t, got.sql, timeCol+" > ?")
		assert.NotContains(t, got.sql, " OR ")
		assert.Contains(t, got.vars, cursorAt)
	case "timestamp id":
		assert.Contains(t, got.sql, full)
		assert.Contains(t, got.vars, cursorAt)
		assert.Contains(t, got.vars, uint64(7))
	}
	assert.Contains(t, got.explain, "LIMIT 5")
}

func TestGetFollowingEdgesSQL(t *testing.T) {
	for name, q := range cursorQueries() {
		t.Run(name, func(t *testing.T) {
			repo, captured := newDryRunRepo(t)
			q.Exclude = []uint64{3, 4}
			_, err := repo.GetFollowingEdges(context.Background(), 1, q)
			require.NoError(t, err)

			got := last(t, captured)
			assert.Contains(t, got.sql, "FROM `user_follows`")
			assert.Contains(t, got.sql, "follower_id = ?")
			assert.Contains(t, got.explain, "followed_id NOT IN (3,4)")
			assert.Contains(t, got.sql, "ORDER BY created_at ASC,followed_id ASC")
			assertKeyset(t, name, got, "created_at", "followed_id")
		})
	}
}

func TestGetFollowerEdgesSQL(t *testing.T) {
	for name, q := range cursorQueries() {
		t.Run(name, func(t *testing.T) {
			repo, captured := newDryRunRepo(t)
			_, err := repo.GetFollowerEdges(context.Background(), 1, q)
			require.NoError(t, err)

			got := last(t, captured)
			assert.Contains(t, got.sql, "followed_id = ?")
			assert.NotContains(t, got.sql, "NOT IN")
			assert.Contains(t, got.sql, "ORDER BY created_at ASC,follower_id ASC")
			assertKeyset(t, name, got, "created_at", "follower_id")
		})
	}
}

func TestGetFriendEdgesSQL(t *testing.T) {
	for name, q := range cursorQueries() {
		t.Run(name, func(t *testing.T) {
			repo, captured := newDryRunRepo(t)
			_, err := repo.GetFriendEdges(context.Background(), 1, q)
			require.NoError(t, err)

			got := last(t, captured)
			assert.Contains(t, got.sql, "a.followed_id AS friend_id, GREATEST(a.created_at, b.created_at) AS friend_since")
			assert.Contains(t, got.sql,
				"FROM user_follows AS a JOIN user_follows AS b ON b.follower_id = a.followed_id AND b.followed_id = a.follower_id")
			assert.Contains(t, got.sql, "a.follower_id = ?")
			assert.Contains(t, got.sql, "ORDER BY friend_since ASC,friend_id ASC")
			assertKeyset(t, name, got, "GREATEST(a.created_at, b.created_at)", "a.followed_id")
		})
	}
}

// TestGetEdgesUnbounded Limit 为 0 时不追加 LIMIT
func TestGetEdgesUnbounded(t *testing.T) {
	repo, captured := newDryRunRepo(t)
	ctx := context.Background()

	_, err := repo.GetFollowingEdges(ctx, 1, EdgeQuery{})
	require.NoError(t, err)
	_, err = repo.GetFollowerEdges(ctx, 1, EdgeQuery{})
	require.NoError(t, err)
	_, err = repo.GetFriendEdges(ctx, 1, EdgeQuery{})
	require.NoError(t, err)

	require.Len(t, *captured, 3)
	for _, got := range *captured {
		assert.NotContains(t, got.sql, "LIMIT")
	}
}

func TestMutualJoinCountAndIDs(t *testing.T) {
	repo, captured := newDryRunRepo(t)
	ctx := context.Background()
	join := "FROM user_follows AS a JOIN user_follows AS b ON b.follower_id = a.followed_id AND b.followed_id = a.follower_id"

	_, err := repo.CountFriends(ctx, 1)
	require.NoError(t, err)
	got := last(t, captured)
	assert.Contains(t, got.sql, "count(*)")
	assert.Contains(t, got.sql, join)
	assert.Contains(t, got.sql, "a.follower_id = ?")
	assert.Equal(t, []interface{}{uint64(1)}, got.vars)

	_, err = repo.GetFriendIDs(ctx, 1)
	require.NoError(t, err)
	got = last(t, captured)
	assert.Contains(t, got.sql, "followed_id")
	assert.Contains(t, got.sql, join)
	assert.Contains(t, got.sql, "a.follower_id = ?")
	assert.NotContains(t, got.sql, "count(*)")
}

func TestCountDirectedExcludesFriends(t *testing.T) {
	repo, captured := newDryRunRepo(t)
	ctx := context.Background()

	_, err := repo.CountFollowing(ctx, 1, []uint64{2, 5})
	require.NoError(t, err)
	got := last(t, captured)
	assert.Contains(t, got.sql, "follower_id = ?")
	assert.Contains(t, got.explain, "followed_id NOT IN (2,5)")

	_, err = repo.CountFollowers(ctx, 1, nil)
	require.NoError(t, err)
	got = last(t, captured)
	assert.Contains(t, got.sql, "followed_id = ?")
	assert.NotContains(t, got.sql, "NOT IN")
}
