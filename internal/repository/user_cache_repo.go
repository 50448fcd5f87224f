package repository

import (
	"SportsX/internal/model"
	"SportsX/internal/pkg/consts"
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// UserCacheRepo 以对外 user_id 为键缓存用户摘要
type UserCacheRepo interface {
	Get(ctx context.Context, userID string) (*model.User, error)
	Set(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, userIDs ...string) error
}

type UserCacheRepoImpl struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUserCacheRepo(rdb *redis.Client, ttl time.Duration) UserCacheRepo {
	return &UserCacheRepoImpl{rdb: rdb, ttl: ttl}
}

// Get 未命中时返回 nil, nil
func (s *UserCacheRepoImpl) Get(ctx context.Context, userID string) (*model.User, error) {
	value, err := s.rdb.Get(ctx, consts.UserSimpleInfoKey+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get user cache")
	}
	user := &model.User{}
	if err = json.Unmarshal([]byte(value), user); err != nil {
		// 脏数据直接丢弃，下次回源
		_ = s.rdb.Del(ctx, consts.UserSimpleInfoKey+userID).Err()
		return nil, nil
	}
	return user, nil
}

func (s *UserCacheRepoImpl) Set(ctx context.Context, user *model.User) error {
	jsonStr, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "marshal user cache")
	}
	err = s.rdb.Set(ctx, consts.UserSimpleInfoKey+user.UserID, string(jsonStr), s.ttl).Err()
	return errors.Wrap(err, "set user cache")
}

func (s *UserCacheRepoImpl) Delete(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, consts.UserSimpleInfoKey+id)
	}
	return errors.Wrap(s.rdb.Del(ctx, keys...).Err(), "delete user cache")
}
