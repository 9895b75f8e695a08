package bootstrap

import (
	"context"
	"log"

	"kb-assistant-be/internal/config"
	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/controller"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/implementation"
	"kb-assistant-be/internal/service"
	"kb-assistant-be/pkg/embedding"
	"kb-assistant-be/pkg/llm/factory"
	"kb-assistant-be/pkg/rag/engine"
	"kb-assistant-be/pkg/rag/memory"
	"kb-assistant-be/pkg/rag/relevance"
	"kb-assistant-be/pkg/rag/retrieval"
	"kb-assistant-be/pkg/rag/router"
	"kb-assistant-be/pkg/rag/workflow"
	"kb-assistant-be/pkg/tokenizer"

	pktNats "kb-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := logger.NewIsolatedLogger(cfg.App.RagLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiApiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 5. Repositories
	collectionRepo := implementation.NewCollectionRepository(db)
	passageEmbeddingRepo := implementation.NewPassageEmbeddingRepository(db)
	turnLogRepo := implementation.NewTurnLogRepository(db)

	// 6. Retrieval Pipeline
	// The collection registry is frozen at startup, an empty collections
	// table is a deployment mistake and not recoverable at runtime.
	collections, err := service.LoadCollectionRegistry(context.Background(), collectionRepo)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load collection registry: %v", err)
	}
	log.Printf("[INFO] Loaded %d collections into the registry", collections.Len())

	tokenCounter := tokenizer.NewDefaultCounter()
	historyStore := memory.NewRedisStore(rdb, constant.ChatHistoryTTL)

	selector := router.NewSelector(llmProvider, ragLogger, cfg.Chat.RouterMaxOutputs)
	searcher := service.NewPassageSearcher(passageEmbeddingRepo)
	aggregator := retrieval.NewAggregator(embeddingProvider, searcher, cfg.Chat.SimilarityTopK, ragLogger)
	filter := relevance.NewFilter(llmProvider, ragLogger)
	engines := engine.NewRegistry(
		llmProvider,
		historyStore,
		tokenCounter,
		constant.ChatSystemPromptV1,
		cfg.Chat.MemoryTokenLimit,
		ragLogger,
	)
	turnWorkflow := workflow.NewWorkflow(collections, selector, aggregator, filter, engines, ragLogger)

	// 7. Services
	publisherService := service.NewPublisherService(constant.ChatTurnCompletedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.ChatTurnCompletedTopic,
		turnLogRepo,
		sysLogger,
	)

	chatService := service.NewChatService(
		turnWorkflow,
		collections,
		historyStore,
		engines,
		publisherService,
		natsPub,
		sysLogger,
	)

	// 8. Controllers
	chatController := controller.NewChatController(chatService)

	return &Container{
		ChatController:  chatController,
		ConsumerService: consumerService,
	}
}
