package dto

import "time"

// ListRelationQueryDTO 关系列表分页查询
type ListRelationQueryDTO struct {
	Limit           *int       `form:"limit" validate:"omitempty,min=1,max=100"`
	CursorCreatedAt *time.Time `form:"cursor_created_at" time_format:"2006-01-02T15:04:05Z07:00"`
	CursorID        *string    `form:"cursor_id" validate:"omitempty,max=32"`
	Cursor          *string    `form:"cursor" validate:"omitempty,max=512"`
	Search          *string    `form:"search" validate:"omitempty,max=64"`
}

// PersonInfoDTO 关系列表中的用户摘要
type PersonInfoDTO struct {
	UserID         string `json:"user_id"`
	AvatarImageURL string `json:"avatar_image_url"`
	Nickname       string `json:"nickname"`
}

// RelationPageDTO 关系列表分页结果
type RelationPageDTO struct {
	Items               []*PersonInfoDTO `json:"items"`
	NextCursorCreatedAt *time.Time       `json:"next_cursor_created_at"`
	NextCursorID        *string          `json:"next_cursor_id"`
	NextCursor          *string          `json:"next_cursor"`
	HasMore             bool             `json:"has_more"`
}

// RelationCountDTO 关系计数，关注与粉丝均不含互关好友
type RelationCountDTO struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Friends   int64 `json:"friends"`
}

// RelationshipDTO 当前用户与目标用户的关系
type RelationshipDTO struct {
	UserID       string `json:"user_id"`
	Relationship string `json:"relationship"`
}
