package es

// UserRelationES 对应关系计数索引的文档结构
type UserRelationES struct {
	ID             uint64 `json:"id"`
	UserID         string `json:"user_id"`
	Nickname       string `json:"nickname"`
	AvatarImageURL string `json:"avatar_image_url"`
	FollowersCount int64  `json:"followers_count"`
	FollowingCount int64  `json:"following_count"`
	FriendsCount   int64  `json:"friends_count"`
}
