package repository

import (
	"SportsX/internal/pkg/consts"
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// TokenRepo 查询已注销的 Token
type TokenRepo interface {
	IsRevoked(ctx context.Context, signature string) (bool, error)
}

type TokenRepoImpl struct {
	rdb *redis.Client
}

func NewTokenRepo(rdb *redis.Client) TokenRepo {
	return &TokenRepoImpl{rdb: rdb}
}

func (s *TokenRepoImpl) IsRevoked(ctx context.Context, signature string) (bool, error) {
	n, err := s.rdb.Exists(ctx, consts.TokenRevokedKey+signature).Result()
	if err != nil {
		return false, errors.Wrap(err, "check token revoked")
	}
	return n > 0, nil
}
