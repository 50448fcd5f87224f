package api

import (
	"SportsX/internal/api/middleware"
	"SportsX/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, opts RouterOptions) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	if opts.Metrics != nil {
		r.Use(opts.Metrics.MonitorMiddleware())
	}
	r.Use(middleware.AuditMiddleware("/metrics", "/api/ping"))
	r.Use(middleware.CORSMiddleware(opts.AllowOrigins))
	logger.SetupGin(r)

	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		relationGroup := apiGroup.Group("/user-relation")
		{
			// 无需登录即可访问的接口
			relationGroup.GET("/count/:user_id", group.UserFollowHandler.GetRelationCounts)
			relationGroup.GET("/followings/:user_id", group.UserFollowHandler.GetUserFollowings)
			relationGroup.GET("/followers/:user_id", group.UserFollowHandler.GetUserFollowers)
			relationGroup.GET("/friends/:user_id", group.UserFollowHandler.GetUserFriends)

			authGroup := relationGroup.Group("")
			authGroup.Use(opts.Auth)
			{
				authGroup.GET("/relationship/:user_id", group.UserFollowHandler.GetRelationship)
				authGroup.POST("/follow/:user_id", group.UserFollowHandler.Follow)
				authGroup.DELETE("/follow/:user_id", group.UserFollowHandler.Unfollow)
			}
		}
	}

	return r
}
