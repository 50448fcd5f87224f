package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims 用户中心签发的 Token 中的业务信息
type UserClaims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}
