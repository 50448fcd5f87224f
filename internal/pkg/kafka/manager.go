package kafka

import (
	"SportsX/internal/api/config"
	"SportsX/internal/repository"
	"SportsX/internal/service"
	"context"
	"errors"
	log "log/slog"
	"sync"

	"github.com/IBM/sarama"
)

type consumerEntry struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	consumers []consumerEntry
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	userSvc service.UserService,
	dirtyRepo repository.RelationDirtyRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	usersConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaUserConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	userFollowsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaUserFollowsConsumer.GroupID, saramaCfg)
	if err != nil {
		_ = usersConsumer.Close()
		return nil, err
	}

	return &ConsumerManager{
		consumers: []consumerEntry{
			{
				name:    "user",
				topic:   cfg.KafkaUserConsumer.Topic,
				group:   usersConsumer,
				handler: NewUserHandler(userSvc, dirtyRepo),
			},
			{
				name:    "user-follows",
				topic:   cfg.KafkaUserFollowsConsumer.Topic,
				group:   userFollowsConsumer,
				handler: NewUserFollowsHandler(dirtyRepo),
			},
		},
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 结束后关闭消费者组
func (m *ConsumerManager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, c := range m.consumers {
		wg.Add(2)
		go func(c consumerEntry) {
			defer wg.Done()
			log.Info("Kafka consumer started", "consumer", c.name, "topic", c.topic)
			for {
				if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
					if errors.Is(err, sarama.ErrClosedConsumerGroup) {
						return
					}
					log.Error("Error from consumer", "consumer", c.name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(c)
		go func(c consumerEntry) {
			defer wg.Done()
			for {
				select {
				case err, ok := <-c.group.Errors():
					if !ok {
						return
					}
					log.Error("Kafka consumer group error", "consumer", c.name, "err", err)
				case <-ctx.Done():
					return
				}
			}
		}(c)
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	var errs []error
	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "consumer", c.name, "err", err)
			errs = append(errs, err)
		}
	}
	wg.Wait()
	return errors.Join(errs...)
}
