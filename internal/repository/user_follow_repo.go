package repository

import (
	"SportsX/internal/model"
	"context"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// ErrAlreadyExists 关注关系唯一约束冲突
var ErrAlreadyExists = errors.New("user follow already exists")

// EdgeQuery 关注边的列表查询条件
// CursorID 仅在 CursorCreatedAt 存在时生效；Limit 为 0 表示不限制
type EdgeQuery struct {
	Exclude         []uint64
	CursorCreatedAt *time.Time
	CursorID        *uint64
	Limit           int
}

type UserFollowRepo interface {
	IsFollowing(ctx context.Context, followerID, followedID uint64) (bool, error)
	CreateUserFollow(ctx context.Context, userFollow *model.UserFollow) error
	DeleteUserFollow(ctx context.Context, followerID, followedID uint64) error
	CountFollowing(ctx context.Context, userID uint64, exclude []uint64) (int64, error)
	CountFollowers(ctx context.Context, userID uint64, exclude []uint64) (int64, error)
	CountFriends(ctx context.Context, userID uint64) (int64, error)
	GetFriendIDs(ctx context.Context, userID uint64) ([]uint64, error)
	GetFollowingEdges(ctx context.Context, userID uint64, q EdgeQuery) ([]*model.UserFollow, error)
	GetFollowerEdges(ctx context.Context, userID uint64, q EdgeQuery) ([]*model.UserFollow, error)
	GetFriendEdges(ctx context.Context, userID uint64, q EdgeQuery) ([]*model.FriendEdge, error)
}

type UserFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: db}
}

// friendSinceExpr 互关成立时间，两条边中较晚的一条
const friendSinceExpr = "GREATEST(a.created_at, b.created_at)"

// IsFollowing followerID 是否关注了 followedID
func (s *UserFollowRepoImpl) IsFollowing(ctx context.Context, followerID, followedID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.UserFollow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "check user follow")
	}
	return count > 0, nil
}

// CreateUserFollow 创建关注边，唯一约束冲突返回 ErrAlreadyExists
func (s *UserFollowRepoImpl) CreateUserFollow(ctx context.Context, userFollow *model.UserFollow) error {
	err := s.db.WithContext(ctx).Create(userFollow).Error
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		return ErrAlreadyExists
	}
	return errors.Wrap(err, "create user follow")
}

// DeleteUserFollow 删除关注边，不存在时不报错
func (s *UserFollowRepoImpl) DeleteUserFollow(ctx context.Context, followerID, followedID uint64) error {
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.UserFollow{}).Error
	return errors.Wrap(err, "delete user follow")
}

// CountFollowing 统计 userID 发出的关注边，排除 exclude 中的对端
func (s *UserFollowRepoImpl) CountFollowing(ctx context.Context, userID uint64, exclude []uint64) (int64, error) {
	var count int64
	tx := s.db.WithContext(ctx).Model(&model.UserFollow{}).Where("follower_id = ?", userID)
	if len(exclude) > 0 {
		tx = tx.Where("followed_id NOT IN ?", exclude)
	}
	if err := tx.Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count following")
	}
	return count, nil
}

// CountFollowers 统计指向 userID 的关注边，排除 exclude 中的对端
func (s *UserFollowRepoImpl) CountFollowers(ctx context.Context, userID uint64, exclude []uint64) (int64, error) {
	var count int64
	tx := s.db.WithContext(ctx).Model(&model.UserFollow{}).Where("followed_id = ?", userID)
	if len(exclude) > 0 {
		tx = tx.Where("follower_id NOT IN ?", exclude)
	}
	if err := tx.Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count followers")
	}
	return count, nil
}

// CountFriends 统计互相关注的人数
func (s *UserFollowRepoImpl) CountFriends(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	if err := s.mutualJoin(ctx, userID).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count friends")
	}
	return count, nil
}

// GetFriendIDs 获取与 userID 互相关注的用户 ID
func (s *UserFollowRepoImpl) GetFriendIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	if err := s.mutualJoin(ctx, userID).Pluck("a.followed_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "get friend ids")
	}
	return ids, nil
}

// GetFollowingEdges 按 (created_at, followed_id) 升序获取 userID 的关注边
func (s *UserFollowRepoImpl) GetFollowingEdges(ctx context.Context, userID uint64, q EdgeQuery) ([]*model.UserFollow, error) {
	edges := make([]*model.UserFollow, 0)
	tx := s.db.WithContext(ctx).Where("follower_id = ?", userID)
	if len(q.Exclude) > 0 {
		tx = tx.Where("followed_id NOT IN ?", q.Exclude)
	}
	tx = tx.Scopes(keyset("created_at", "followed_id", q)).
		Order("created_at ASC").
		Order("followed_id ASC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(&edges).Error; err != nil {
		return nil, errors.Wrap(err, "get following edges")
	}
	return edges, nil
}

// GetFollowerEdges 按 (created_at, follower_id) 升序获取关注 userID 的边
func (s *UserFollowRepoImpl) GetFollowerEdges(ctx context.Context, userID uint64, q EdgeQuery) ([]*model.UserFollow, error) {
	edges := make([]*model.UserFollow, 0)
	tx := s.db.WithContext(ctx).Where("followed_id = ?", userID)
	if len(q.Exclude) > 0 {
		tx = tx.Where("follower_id NOT IN ?", q.Exclude)
	}
	tx = tx.Scopes(keyset("created_at", "follower_id", q)).
		Order("created_at ASC").
		Order("follower_id ASC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(&edges).Error; err != nil {
		return nil, errors.Wrap(err, "get follower edges")
	}
	return edges, nil
}

// GetFriendEdges 按 (friend_since, friend_id) 升序获取互关对端
func (s *UserFollowRepoImpl) GetFriendEdges(ctx context.Context, userID uint64, q EdgeQuery) ([]*model.FriendEdge, error) {
	rows := make([]*model.FriendEdge, 0)
	tx := s.mutualJoin(ctx, userID).
		Select("a.followed_id AS friend_id, " + friendSinceExpr + " AS friend_since").
		Scopes(keyset(friendSinceExpr, "a.followed_id", q)).
		Order("friend_since ASC").
		Order("friend_id ASC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "get friend edges")
	}
	return rows, nil
}

// mutualJoin a 为 userID 发出的边，b 为对端回关的边
func (s *UserFollowRepoImpl) mutualJoin(ctx context.Context, userID uint64) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("user_follows AS a").
		Joins("JOIN user_follows AS b ON b.follower_id = a.followed_id AND b.followed_id = a.follower_id").
		Where("a.follower_id = ?", userID)
}

// keyset 游标条件 (timeCol, idCol) > (cursor_created_at, cursor_id)
func keyset(timeCol, idCol string, q EdgeQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.CursorCreatedAt == nil {
			return db
		}
		if q.CursorID == nil {
			return db.Where(timeCol+" > ?", *q.CursorCreatedAt)
		}
		cond := fmt.Sprintf("(%s > ? OR (%s = ? AND %s > ?))", timeCol, timeCol, idCol)
		return db.Where(cond, *q.CursorCreatedAt, *q.CursorCreatedAt, *q.CursorID)
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
