package model

import "time"

// UserFollow FollowerID 关注 FollowedID
type UserFollow struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	FollowerID uint64    `gorm:"not null;uniqueIndex:uq_follower_followed,priority:1;index:idx_follower_created,priority:1;index:idx_followed_created,priority:3" json:"followerId"`
	FollowedID uint64    `gorm:"not null;uniqueIndex:uq_follower_followed,priority:2;index:idx_followed_created,priority:1;index:idx_follower_created,priority:3" json:"followedId"`
	CreatedAt  time.Time `gorm:"type:datetime(6);not null;index:idx_follower_created,priority:2;index:idx_followed_created,priority:2" json:"createdAt"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}

// FriendEdge 互相关注的一对边，FriendSince 取两条边中较晚的创建时间
type FriendEdge struct {
	FriendID    uint64    `gorm:"column:friend_id"`
	FriendSince time.Time `gorm:"column:friend_since"`
}
