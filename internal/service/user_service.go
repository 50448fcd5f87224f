package service

import (
	"SportsX/internal/api/dto"
	"SportsX/internal/model"
	"SportsX/internal/repository"
	"context"
	log "log/slog"

	"github.com/jinzhu/copier"
)

// UserService 用户身份解析，用户资料只读
type UserService interface {
	ResolveUser(ctx context.Context, userID string) (*model.User, error)
	LookupUser(ctx context.Context, userID string) (*model.User, error)
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUsersByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	EvictUser(ctx context.Context, userIDs ...string) error
}

type UserServiceImpl struct {
	userRepo      repository.UserRepo
	userCacheRepo repository.UserCacheRepo
}

func NewUserService(userRepo repository.UserRepo, userCacheRepo repository.UserCacheRepo) UserService {
	return &UserServiceImpl{
		userRepo:      userRepo,
		userCacheRepo: userCacheRepo,
	}
}

// ResolveUser 按对外 user_id 解析用户，不存在返回 ErrUserNotFound
func (s *UserServiceImpl) ResolveUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.LookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// LookupUser 先读缓存再回源，不存在时返回 nil
func (s *UserServiceImpl) LookupUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, nil
	}
	user, err := s.userCacheRepo.Get(ctx, userID)
	if err != nil {
		log.WarnContext(ctx, "get user cache error", "user_id", userID, "err", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.userRepo.GetUserByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if err = s.userCacheRepo.Set(ctx, user); err != nil {
		log.WarnContext(ctx, "set user cache error", "user_id", userID, "err", err)
	}
	return user, nil
}

func (s *UserServiceImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	return s.userRepo.GetUserById(ctx, id)
}

func (s *UserServiceImpl) GetUsersByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	return s.userRepo.GetUserByIds(ctx, ids)
}

// EvictUser 用户资料变更后删除缓存
func (s *UserServiceImpl) EvictUser(ctx context.Context, userIDs ...string) error {
	return s.userCacheRepo.Delete(ctx, userIDs...)
}

// toPersonInfos 按传入顺序转换为用户摘要
func toPersonInfos(users []*model.User) ([]*dto.PersonInfoDTO, error) {
	items := make([]*dto.PersonInfoDTO, 0, len(users))
	if err := copier.Copy(&items, &users); err != nil {
		return nil, err
	}
	return items, nil
}
