package api

import (
	"SportsX/internal/api/handler"
	"SportsX/internal/api/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserFollowHandler *handler.UserFollowHandler
}

// RouterOptions 路由依赖的中间件
type RouterOptions struct {
	AllowOrigins   []string
	Auth           gin.HandlerFunc
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
}
