package middleware

import (
	"SportsX/internal/pkg/consts"
	"SportsX/internal/pkg/response"
	"SportsX/internal/pkg/security"
	"SportsX/internal/repository"
	"context"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware(verifier *security.TokenVerifier, tokenRepo repository.TokenRepo, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			metrics.rejectAuth("missing_token")
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			metrics.rejectAuth("malformed_token")
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		if tokenRepo != nil {
			revoked, err := tokenRepo.IsRevoked(c.Request.Context(), signature)
			if err != nil {
				log.ErrorContext(c.Request.Context(), "check token revoked error", "err", err)
				response.Fail(c, response.InternalServerError, "未知错误")
				c.Abort()
				return
			}
			if revoked {
				metrics.rejectAuth("revoked_token")
				response.Fail(c, response.Unauthorized, "Token 无效或已过期")
				c.Abort()
				return
			}
		}

		claims, err := verifier.ValidateToken(tokenString)
		if err != nil {
			metrics.rejectAuth("invalid_token")
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		c.Set(consts.CtxUserID, claims.UserID)
		c.Set("roles", claims.Roles)

		newCtx := context.WithValue(c.Request.Context(), consts.CtxUserID, claims.UserID)
		c.Request = c.Request.WithContext(newCtx)

		c.Next()
	}
}
