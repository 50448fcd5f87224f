package job

import (
	"SportsX/internal/pkg/consts"
	"SportsX/internal/pkg/es"
	"SportsX/internal/pkg/logger"
	"SportsX/internal/repository"
	"SportsX/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const relationCountJobLockTTL = 5 * time.Minute

// RelationCountJob 将发生变化的用户关系计数同步到 ES
type RelationCountJob struct {
	userSvc        service.UserService
	userFollowSvc  service.UserFollowService
	dirtyRepo      repository.RelationDirtyRepo
	relationESRepo es.RelationRepo
	now            func() time.Time
}

func NewRelationCountJob(
	userSvc service.UserService,
	userFollowSvc service.UserFollowService,
	dirtyRepo repository.RelationDirtyRepo,
	relationESRepo es.RelationRepo,
) *RelationCountJob {
	return &RelationCountJob{
		userSvc:        userSvc,
		userFollowSvc:  userFollowSvc,
		dirtyRepo:      dirtyRepo,
		relationESRepo: relationESRepo,
		now:            time.Now,
	}
}

func (s *RelationCountJob) Run() {
	ctx := logger.WithTraceID(context.Background(), "job-"+uuid.NewString())

	// 多实例部署时只允许一个实例执行
	lockValue := uuid.NewString()
	locked, err := s.dirtyRepo.TryLock(ctx, consts.RelationCountJobLock, lockValue, relationCountJobLockTTL)
	if err != nil {
		log.ErrorContext(ctx, "acquire relation count job lock error", "err", err)
		return
	}
	if !locked {
		return
	}
	defer s.dirtyRepo.UnLock(ctx, consts.RelationCountJobLock, lockValue)

	ids, err := s.dirtyRepo.TakeDirty(ctx)
	if err != nil {
		log.ErrorContext(ctx, "get dirty set error", "err", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	failed := make([]uint64, 0)
	for _, id := range ids {
		if err = s.sync(ctx, id); err != nil {
			log.ErrorContext(ctx, "sync relation count error", "id", id, "err", err)
			failed = append(failed, id)
		}
	}

	// 失败的用户放回脏集合，下一轮重试
	if len(failed) > 0 {
		if err = s.dirtyRepo.MarkDirty(ctx, failed...); err != nil {
			log.ErrorContext(ctx, "re-mark dirty error", "err", err)
			return
		}
	}
	if err = s.dirtyRepo.AckDirty(ctx); err != nil {
		log.ErrorContext(ctx, "delete dirty set error", "err", err)
	}

	log.InfoContext(ctx, "sync relation count done", "total", len(ids), "failed", len(failed))
}

func (s *RelationCountJob) sync(ctx context.Context, id uint64) error {
	user, err := s.userSvc.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return s.relationESRepo.DeleteRelation(ctx, id)
	}

	counts, err := s.userFollowSvc.CountRelations(ctx, id)
	if err != nil {
		return err
	}
	return s.relationESRepo.IndexRelation(ctx, &es.UserRelationES{
		ID:             user.ID,
		UserID:         user.UserID,
		Nickname:       user.Nickname,
		AvatarImageURL: user.AvatarImageURL,
		FollowersCount: counts.Followers,
		FollowingCount: counts.Following,
		FriendsCount:   counts.Friends,
	}, s.now().UnixNano())
}
