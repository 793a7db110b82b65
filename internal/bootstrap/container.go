package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-knowledge-base-be/internal/config"
	"ai-knowledge-base-be/internal/controller"
	"ai-knowledge-base-be/internal/handler"
	"ai-knowledge-base-be/internal/pkg/logger"
	"ai-knowledge-base-be/internal/repository/unitofwork"
	"ai-knowledge-base-be/internal/service"
	"ai-knowledge-base-be/internal/websocket"
	"ai-knowledge-base-be/pkg/embedding"
	"ai-knowledge-base-be/pkg/llm/factory"
	"ai-knowledge-base-be/pkg/vectorindex"
	"ai-knowledge-base-be/pkg/webpage"

	pktNats "ai-knowledge-base-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ItemController   controller.IItemController
	QueryController  controller.IQueryController
	SystemController controller.ISystemController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	RebuildService  service.IRebuildService

	// WebSockets & Activity Stream
	ActivityHandler *handler.ActivityHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "azure" {
		embeddingProvider = embedding.NewAzureOpenAIProvider(
			cfg.Ai.AzureEndpoint,
			cfg.Ai.AzureAPIKey,
			cfg.Ai.AzureEmbeddingDeployment,
			cfg.Ai.AzureAPIVersion,
		)
		log.Printf("[INFO] Using Embedding Provider: AZURE OPENAI (%s)", cfg.Ai.AzureEmbeddingDeployment)
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	// Repeated rebuilds re-embed the same chunks, the cache absorbs that
	embeddingProvider = embedding.NewCachedProvider(
		embeddingProvider,
		time.Duration(cfg.Ai.CacheTTLMinutes)*time.Minute,
	)

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider:        cfg.Ai.LLMProvider,
		Model:           cfg.Ai.LLMModel,
		OllamaBaseURL:   cfg.Ai.OllamaBaseURL,
		AzureEndpoint:   cfg.Ai.AzureEndpoint,
		AzureAPIKey:     cfg.Ai.AzureAPIKey,
		AzureDeployment: cfg.Ai.AzureChatDeployment,
		AzureAPIVersion: cfg.Ai.AzureAPIVersion,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Vector Index
	vectorIndex := vectorindex.New(embeddingProvider, cfg.Ai.EmbeddingDimension)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/activity.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.ReindexTopic, pubSub)
	rebuildService := service.NewRebuildService(uowFactory, vectorIndex, natsPub, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ReindexTopic,
		rebuildService,
	)

	itemService := service.NewItemService(
		uowFactory,
		vectorIndex,
		webpage.NewExtractor(),
		publisherService,
		natsPub,
		sysLogger,
		cfg.Retrieval.ChunkSize,
		cfg.Retrieval.ChunkOverlap,
	)
	queryService := service.NewQueryService(
		uowFactory,
		vectorIndex,
		llmProvider,
		cfg.Ai.Temperature,
		cfg.Ai.MaxTokens,
	)
	systemService := service.NewSystemService(uowFactory, vectorIndex, rebuildService)

	// 4.5 Activity Stream Infrastructure
	activityService := service.NewActivityService(natsSub, wsHub, wsLogger) // Hub implements ActivityDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go activityService.Start()
	}

	// Handler
	activityHandler := handler.NewActivityHandler(natsPub, wsHub, wsLogger)

	// 5. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		ActivityHandler:  activityHandler,
		WebSocketHub:     wsHub,
		ItemController:   controller.NewItemController(itemService),
		QueryController:  controller.NewQueryController(queryService),
		SystemController: controller.NewSystemController(systemService),

		ConsumerService: consumerService,
		RebuildService:  rebuildService,
	}
}
