package kafka

import (
	"SportsX/internal/pkg/consts"
	"SportsX/internal/repository"
	"SportsX/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// UserHandler 用户资料变更后删除用户摘要缓存，并标记关系文档待刷新
type UserHandler struct {
	userSvc   service.UserService
	dirtyRepo repository.RelationDirtyRepo
}

func NewUserHandler(userSvc service.UserService, dirtyRepo repository.RelationDirtyRepo) *UserHandler {
	return &UserHandler{userSvc: userSvc, dirtyRepo: dirtyRepo}
}

func (s *UserHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("user consumer setup")
	return nil
}

func (s *UserHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("user consumer cleanup")
	return nil
}

func (s *UserHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-user consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("process batch error", "err", err)
		return err
	}
	log.Info("topic-user consume claim end")
	return nil
}

func (s *UserHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, consts.UserTable)
	if err != nil {
		log.DebugContext(ctx, "skip canal message", "err", err)
		return nil
	}
	if canalMsg.Type != consts.UPDATE && canalMsg.Type != consts.DELETE {
		return nil
	}

	userIDs := make([]string, 0, len(canalMsg.Data))
	ids := make([]uint64, 0, len(canalMsg.Data))
	for i, row := range canalMsg.Data {
		if id, ok := RowUint64(row, "id"); ok {
			ids = append(ids, id)
		}
		if userID, ok := RowString(row, "user_id"); ok {
			userIDs = append(userIDs, userID)
		}
		// user_id 本身被修改时旧键也要删除
		if i < len(canalMsg.Old) {
			if oldID, ok := RowString(canalMsg.Old[i], "user_id"); ok {
				userIDs = append(userIDs, oldID)
			}
		}
	}
	if err = s.userSvc.EvictUser(ctx, userIDs...); err != nil {
		return err
	}
	// 关系文档里冗余了昵称和头像，删除的用户由定时任务清理文档
	return s.dirtyRepo.MarkDirty(ctx, ids...)
}
