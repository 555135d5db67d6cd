package bootstrap

import (
	"context"
	"log"

	"cadastro-prestador-be/internal/config"
	"cadastro-prestador-be/internal/controller"
	"cadastro-prestador-be/internal/handler"
	"cadastro-prestador-be/internal/pkg/logger"
	"cadastro-prestador-be/internal/pkg/mailer"
	"cadastro-prestador-be/internal/pkg/serverutils"
	"cadastro-prestador-be/internal/repository/contract"
	"cadastro-prestador-be/internal/repository/memory"
	"cadastro-prestador-be/internal/repository/redisstore"
	"cadastro-prestador-be/internal/repository/unitofwork"
	"cadastro-prestador-be/internal/service"
	"cadastro-prestador-be/internal/websocket"
	"cadastro-prestador-be/pkg/events"
	"cadastro-prestador-be/pkg/llm/factory"
	"cadastro-prestador-be/pkg/storage"

	pktNats "cadastro-prestador-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const providerEventsTopic = "provider_events"

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	ProviderController controller.IProviderController
	ChatbotController  controller.IChatbotController
	UploadController   controller.IUploadController

	// Middleware
	AuthMiddleware fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	ChatbotWsHandler *handler.ChatbotWsHandler
	WebSocketHub     *websocket.Hub

	Logger  logger.ILogger
	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	assistantLogger := logger.NewIsolatedLogger(cfg.App.AssistantLogPath)
	uowFactory := unitofwork.NewRepositoryFactory(db)
	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var mirror events.Publisher
	if cfg.App.NatsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			mirror = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}
	publisherService := service.NewPublisherService(providerEventsTopic, pubSub, mirror, sysLogger)

	// 3. Redis (conversation store and websocket fan-out)
	var rdb *redis.Client
	if cfg.Conversation.Store == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var conversations contract.ConversationRepository
	if rdb != nil {
		conversations = redisstore.NewConversationRepository(rdb, cfg.Conversation.TTL)
	} else {
		conversations = memory.NewConversationRepository(cfg.Conversation.TTL)
	}

	// 4. File Storage
	fileStore := newFileStore(cfg)

	// 5. Generator
	apiKey := cfg.Keys.GoogleGemini
	if cfg.Ai.LLMProvider == "huggingface" {
		apiKey = cfg.Keys.HuggingFace
	}
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.BaseURL, apiKey)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}

	// 6. WebSocket Hub
	wsHub := websocket.NewHub(rdb, sysLogger)

	// 7. Services
	profiles := service.NewProfileStore(uowFactory)
	authService := service.NewAuthService(uowFactory, publisherService, service.AuthOptions{
		JWTSecret:     cfg.Auth.JWTSecret,
		JWTExpiration: cfg.Auth.JWTExpiration,
		BcryptCost:    cfg.Auth.BcryptCost,
	}, sysLogger)
	providerService := service.NewProviderService(uowFactory, publisherService, sysLogger)
	chatbotService := service.NewChatbotService(
		uowFactory,
		llmProvider,
		conversations,
		profiles,
		publisherService,
		service.GenerationOptions{
			Timeout:     cfg.Ai.Timeout,
			Temperature: cfg.Ai.Temperature,
			TopK:        cfg.Ai.TopK,
			TopP:        cfg.Ai.TopP,
			MaxTokens:   cfg.Ai.MaxTokens,
		},
		sysLogger,
		assistantLogger,
	)
	uploadService := service.NewUploadService(fileStore, profiles, sysLogger)

	c.ConsumerService = service.NewConsumerService(
		pubSub,
		providerEventsTopic,
		emailService,
		wsHub, // Hub implements EventNotifier
		sysLogger,
	)

	// 8. Controllers
	c.AuthMiddleware = serverutils.JwtMiddleware(cfg.Auth.JWTSecret)
	c.AuthController = controller.NewAuthController(authService)
	c.ProviderController = controller.NewProviderController(providerService)
	c.ChatbotController = controller.NewChatbotController(chatbotService)
	c.UploadController = controller.NewUploadController(uploadService)
	c.ChatbotWsHandler = handler.NewChatbotWsHandler(chatbotService, wsHub, cfg.Auth.JWTSecret, sysLogger)
	c.WebSocketHub = wsHub

	return c
}

func newFileStore(cfg *config.Config) storage.FileStore {
	if cfg.Storage.Driver == "minio" {
		store, err := storage.NewMinioStore(
			cfg.Storage.MinioEndpoint,
			cfg.Storage.MinioAccessKey,
			cfg.Storage.MinioSecretKey,
			cfg.Storage.MinioBucket,
			cfg.Storage.MinioUseSSL,
		)
		if err == nil {
			return store
		}
		log.Printf("[WARN] MinIO unavailable, falling back to local uploads: %v", err)
	}

	store, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.PublicPath)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}
	return store
}

// Close releases the bus, NATS and Redis connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
