package repository

import (
	"SportsX/internal/model"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UserRepo 用户表只读访问，用户资料由用户中心维护
type UserRepo interface {
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	GetUserByUserID(ctx context.Context, userID string) (*model.User, error)
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).First(user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "get user by id")
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	result := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "get users by ids")
	}
	return users, nil
}

// GetUserByUserID 按对外 user_id 查询，不存在时返回 nil
func (s *UserRepoImpl) GetUserByUserID(ctx context.Context, userID string) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "get user by user_id")
	}
	return user, nil
}
