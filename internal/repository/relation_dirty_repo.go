package repository

import (
	"SportsX/internal/pkg/consts"
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RelationDirtyRepo 关注关系发生变化、需要重算计数的用户集合
type RelationDirtyRepo interface {
	MarkDirty(ctx context.Context, ids ...uint64) error
	TakeDirty(ctx context.Context) ([]uint64, error)
	AckDirty(ctx context.Context) error
	TryLock(ctx context.Context, key, value string, expiration time.Duration) (bool, error)
	UnLock(ctx context.Context, key, value string)
}

type RelationDirtyRepoImpl struct {
	rdb *redis.Client
}

func NewRelationDirtyRepo(rdb *redis.Client) RelationDirtyRepo {
	return &RelationDirtyRepoImpl{rdb: rdb}
}

func (s *RelationDirtyRepoImpl) MarkDirty(ctx context.Context, ids ...uint64) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		members = append(members, strconv.FormatUint(id, 10))
	}
	return errors.Wrap(s.rdb.SAdd(ctx, consts.UserRelationDirtyKey, members...).Err(), "mark relation dirty")
}

// TakeDirty 将脏集合转入处理中集合并返回其成员
// 上一轮未确认的处理中集合会先被返回，避免覆盖丢失
func (s *RelationDirtyRepoImpl) TakeDirty(ctx context.Context) ([]uint64, error) {
	exists, err := s.rdb.Exists(ctx, consts.UserRelationDirtyFlight).Result()
	if err != nil {
		return nil, errors.Wrap(err, "check dirty flight")
	}
	if exists == 0 {
		pending, err := s.rdb.Exists(ctx, consts.UserRelationDirtyKey).Result()
		if err != nil {
			return nil, errors.Wrap(err, "check dirty set")
		}
		if pending == 0 {
			return nil, nil
		}
		// 只有持锁的任务会取走脏集合，检查与改名之间不会被清空
		if err = s.rdb.Rename(ctx, consts.UserRelationDirtyKey, consts.UserRelationDirtyFlight).Err(); err != nil {
			return nil, errors.Wrap(err, "rename dirty set")
		}
	}

	members, err := s.rdb.SMembers(ctx, consts.UserRelationDirtyFlight).Result()
	if err != nil {
		return nil, errors.Wrap(err, "get dirty set")
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *RelationDirtyRepoImpl) AckDirty(ctx context.Context) error {
	return errors.Wrap(s.rdb.Del(ctx, consts.UserRelationDirtyFlight).Err(), "delete dirty flight")
}

// TryLock 设置键值对并设置过期时间
func (s *RelationDirtyRepoImpl) TryLock(ctx context.Context, key, value string, expiration time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, value, expiration).Result()
}

// UnLock 释放锁
func (s *RelationDirtyRepoImpl) UnLock(ctx context.Context, key, value string) {
	s.rdb.Eval(ctx, "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end", []string{key}, value)
}
