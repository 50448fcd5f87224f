package model

import (
	"time"
)

// User 用户中心维护的用户表，本服务只读
type User struct {
	ID             uint64 `gorm:"primaryKey"`
	UserID         string `gorm:"type:varchar(32);uniqueIndex:idx_user_id;not null"`
	Nickname       string `gorm:"type:varchar(64);not null"`
	AvatarImageURL string `gorm:"type:varchar(512);column:avatar_image_url;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (User) TableName() string {
	return "users"
}
