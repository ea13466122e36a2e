package bootstrap

import (
	"context"
	"log"
	"time"

	"dhcp-admin-be/internal/config"
	"dhcp-admin-be/internal/controller"
	"dhcp-admin-be/internal/pkg/logger"
	"dhcp-admin-be/internal/repository/memory"
	"dhcp-admin-be/internal/service"
	"dhcp-admin-be/internal/websocket"
	"dhcp-admin-be/pkg/audit"
	"dhcp-admin-be/pkg/drafts"
	"dhcp-admin-be/pkg/remotestore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	WorkspaceController controller.IWorkspaceController
	NavController       controller.INavController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub

	// Infrastructure handles main.go closes on shutdown
	AuditPublisher *audit.Publisher
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	auditPub, err := audit.NewPublisher(cfg.App.NatsURL)
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
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/workspace_stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Upstream store and session storage
	store := remotestore.NewClient(
		cfg.Upstream.BaseURL,
		time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second,
	)
	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	workspaceRepo := memory.NewWorkspaceRepository(sessionTTL)
	draftStore := drafts.NewStore(rdb, sessionTTL)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.MutationTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.MutationTopic,
		auditPub,
		wsHub,
	)

	workspaceService := service.NewWorkspaceService(
		cfg,
		store,
		workspaceRepo,
		publisherService,
		wsHub,
		draftStore,
		sysLogger,
	)
	navService := service.NewNavService(cfg, store)

	// 5. Controllers
	return &Container{
		WorkspaceController: controller.NewWorkspaceController(workspaceService, wsHub, sysLogger),
		NavController:       controller.NewNavController(navService),

		ConsumerService: consumerService,

		WebSocketHub:   wsHub,
		AuditPublisher: auditPub,
	}
}
