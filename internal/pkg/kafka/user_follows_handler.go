package kafka

import (
	"SportsX/internal/pkg/consts"
	"SportsX/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// UserFollowsHandler 关注边变更后标记双方计数待重算
type UserFollowsHandler struct {
	dirtyRepo repository.RelationDirtyRepo
}

func NewUserFollowsHandler(dirtyRepo repository.RelationDirtyRepo) *UserFollowsHandler {
	return &UserFollowsHandler{dirtyRepo: dirtyRepo}
}

func (s *UserFollowsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("user follows consumer setup")
	return nil
}

func (s *UserFollowsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("user follows consumer cleanup")
	return nil
}

func (s *UserFollowsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-user-follows consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-user-follows process batch error", "err", err)
		return err
	}
	log.Info("topic-user-follows consume claim end")
	return nil
}

func (s *UserFollowsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, consts.UserFollowTable)
	if err != nil {
		// 无法解析或不属于本表的消息重试也无意义
		log.DebugContext(ctx, "skip canal message", "err", err)
		return nil
	}
	if canalMsg.Type != consts.INSERT && canalMsg.Type != consts.DELETE {
		return nil
	}

	seen := make(map[uint64]struct{})
	affected := make([]uint64, 0, len(canalMsg.Data)*2)
	for _, row := range canalMsg.Data {
		for _, column := range []string{"follower_id", "followed_id"} {
			id, ok := RowUint64(row, column)
			if !ok {
				log.WarnContext(ctx, "invalid user follow column", "column", column, "value", row[column])
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			affected = append(affected, id)
		}
	}

	return s.dirtyRepo.MarkDirty(ctx, affected...)
}
