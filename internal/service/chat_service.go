package service

import (
	"context"
	"encoding/json"
	"time"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/dto"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/pkg/events"
	pktNats "kb-assistant-be/pkg/nats"
	"kb-assistant-be/pkg/rag/engine"
	"kb-assistant-be/pkg/rag/memory"
	"kb-assistant-be/pkg/rag/registry"
	"kb-assistant-be/pkg/rag/workflow"
)

// IChatService defines the conversational surface of the knowledge base
type IChatService interface {
	Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error)
	GetHistory(ctx context.Context, userId string) (*dto.GetChatHistoryResponse, error)
	ClearHistory(ctx context.Context, userId string) error
	GetCollections(ctx context.Context) ([]*dto.CollectionResponse, error)
}

type chatService struct {
	turnWorkflow     *workflow.Workflow
	collections      *registry.Registry
	historyStore     memory.Store
	engines          *engine.Registry
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher // nil when NATS is unreachable
	logger           logger.ILogger
}

func NewChatService(
	turnWorkflow *workflow.Workflow,
	collections *registry.Registry,
	historyStore memory.Store,
	engines *engine.Registry,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		turnWorkflow:     turnWorkflow,
		collections:      collections,
		historyStore:     historyStore,
		engines:          engines,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

// Ask runs one full conversation turn. The answer is always presentable;
// internal failures surface in the outcome, never as raw provider errors.
func (s *chatService) Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error) {
	turnCtx, cancel := context.WithTimeout(ctx, constant.AskTimeout)
	defer cancel()

	result, err := s.turnWorkflow.Run(turnCtx, workflow.TurnInput{
		Query:    request.Query,
		UserName: request.UserName,
		UserID:   request.UserId,
	})
	if err != nil {
		s.logger.Error("chat_service", "Turn finished with error", map[string]interface{}{
			"user_id": request.UserId,
			"outcome": string(result.Outcome),
			"error":   err.Error(),
		})
	}

	s.publishTurnCompleted(request.UserId, result)

	return &dto.AskResponse{
		Answer:            result.Answer,
		Outcome:           string(result.Outcome),
		RoutedCollections: result.RoutedCollections,
		ElapsedMs:         result.Elapsed.Milliseconds(),
	}, nil
}

// publishTurnCompleted emits the turn analytics message on the internal bus
// and mirrors it to NATS. Both are best-effort, a turn never fails because
// analytics did.
func (s *chatService) publishTurnCompleted(userId string, result *workflow.TurnResult) {
	elapsedMs := result.Elapsed.Milliseconds()

	payload := dto.PublishChatTurnMessage{
		UserId:            userId,
		Outcome:           string(result.Outcome),
		RoutedCollections: result.RoutedCollections,
		CandidateCount:    result.CandidateCount,
		SelectedCount:     result.SelectedCount,
		ElapsedMs:         elapsedMs,
		OccurredAt:        time.Now(),
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("chat_service", "Failed to marshal turn message", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := s.publisherService.Publish(context.Background(), payloadJson); err != nil {
		s.logger.Error("chat_service", "Failed to publish turn message", map[string]interface{}{"error": err.Error()})
	}

	if s.eventPublisher != nil {
		evt := events.NewChatTurnCompleted(
			userId,
			string(result.Outcome),
			result.RoutedCollections,
			result.CandidateCount,
			result.SelectedCount,
			elapsedMs,
		)
		if err := s.eventPublisher.Publish(context.Background(), evt); err != nil {
			s.logger.Warn("chat_service", "Failed to mirror turn event to NATS", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *chatService) GetHistory(ctx context.Context, userId string) (*dto.GetChatHistoryResponse, error) {
	sessionKey := constant.ChatHistoryKeyPrefix + userId
	messages, err := s.historyStore.Tail(ctx, sessionKey, constant.ChatMemoryFetchWindow)
	if err != nil {
		return nil, err
	}

	res := &dto.GetChatHistoryResponse{
		UserId:   userId,
		Messages: make([]dto.ChatHistoryMessage, len(messages)),
	}
	for i, m := range messages {
		res.Messages[i] = dto.ChatHistoryMessage{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
	}
	return res, nil
}

// ClearHistory wipes the durable log and evicts the cached engine so the
// next turn starts from an empty window.
func (s *chatService) ClearHistory(ctx context.Context, userId string) error {
	sessionKey := constant.ChatHistoryKeyPrefix + userId
	if err := s.historyStore.Delete(ctx, sessionKey); err != nil {
		return err
	}
	s.engines.Evict(userId)
	return nil
}

func (s *chatService) GetCollections(ctx context.Context) ([]*dto.CollectionResponse, error) {
	all := s.collections.All()
	res := make([]*dto.CollectionResponse, len(all))
	for i, c := range all {
		res[i] = &dto.CollectionResponse{
			Slug:        c.ID,
			Name:        c.Name,
			Description: c.Description,
		}
	}
	return res, nil
}
