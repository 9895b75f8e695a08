package service

import (
	"context"
	"encoding/json"
	"time"

	"kb-assistant-be/internal/dto"
	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the turn-completed topic and persists one TurnLog
// row per message.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	turnLogRepository contract.TurnLogRepository
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	turnLogRepository contract.TurnLogRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		turnLogRepository: turnLogRepository,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishChatTurnMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer_service", "Failed to unmarshal turn message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payload would never succeed on retry
		return
	}

	createdAt := payload.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	turnLog := &entity.TurnLog{
		Id:                uuid.New(),
		UserId:            payload.UserId,
		Outcome:           payload.Outcome,
		RoutedCollections: payload.RoutedCollections,
		CandidateCount:    payload.CandidateCount,
		SelectedCount:     payload.SelectedCount,
		ElapsedMs:         payload.ElapsedMs,
		CreatedAt:         createdAt,
	}

	if err := cs.turnLogRepository.Create(ctx, turnLog); err != nil {
		cs.logger.Error("consumer_service", "Failed to persist turn log", map[string]interface{}{
			"user_id": payload.UserId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
