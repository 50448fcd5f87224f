package wire

import (
	"SportsX/internal/api"
	"SportsX/internal/api/config"
	"SportsX/internal/api/handler"
	"SportsX/internal/api/middleware"
	"SportsX/internal/job"
	"SportsX/internal/pkg/cron"
	"SportsX/internal/pkg/es"
	"SportsX/internal/pkg/kafka"
	"SportsX/internal/pkg/security"
	"SportsX/internal/repository"
	"SportsX/internal/service"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
// KafkaManager 与 CronMgr 在对应功能关闭时为 nil
type ApplicationContainer struct {
	Router       *gin.Engine
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	esClient *elasticsearch.TypedClient,
) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	userCacheRepo := repository.NewUserCacheRepo(rdb, time.Duration(cfg.Relation.UserCacheTTL)*time.Second)
	dirtyRepo := repository.NewRelationDirtyRepo(rdb)
	tokenRepo := repository.NewTokenRepo(rdb)

	userService := service.NewUserService(userRepo, userCacheRepo)
	userFollowService := service.NewUserFollowService(userFollowRepo, userService, cfg.Relation)

	handlers := &api.HandlersGroup{
		UserFollowHandler: handler.NewUserFollowHandler(userFollowService),
	}

	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
	router := api.SetupRouter(handlers, api.RouterOptions{
		AllowOrigins:   cfg.Server.AllowOrigins,
		Auth:           middleware.AuthMiddleware(security.NewTokenVerifier(cfg.JWT), tokenRepo, metrics),
		Metrics:        metrics,
		MetricsHandler: promhttp.Handler(),
	})

	app := &ApplicationContainer{Router: router}

	if cfg.Kafka.Enable {
		kafkaMgr, err := kafka.NewConsumerManager(cfg, userService, dirtyRepo)
		if err != nil {
			return nil, err
		}
		app.KafkaManager = kafkaMgr
	}

	if esClient != nil {
		relationESRepo := es.NewRelationRepo(esClient, cfg.Elastic.RelationIndex)
		relationCountJob := job.NewRelationCountJob(userService, userFollowService, dirtyRepo, relationESRepo)
		app.CronMgr = cron.NewCronManager(cfg.Cron, relationCountJob)
	}

	return app, nil
}
