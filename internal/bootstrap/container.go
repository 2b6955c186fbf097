package bootstrap

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"mitr-be/internal/config"
	"mitr-be/internal/controller"
	"mitr-be/internal/handler"
	"mitr-be/internal/jobs"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/mailer"
	"mitr-be/internal/pkg/ratelimit"
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/repository/implementation"
	"mitr-be/internal/repository/memory"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/internal/service"
	"mitr-be/internal/websocket"
	"mitr-be/pkg/catalog"
	"mitr-be/pkg/counsellor"
	"mitr-be/pkg/events"
	"mitr-be/pkg/llm"
	"mitr-be/pkg/llm/factory"
	pktNats "mitr-be/pkg/nats"
	"mitr-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	conversationIdle     = 30 * time.Minute
	conversationMaxTurns = 12
	limiterMaxIdle       = time.Hour
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	UserController         controller.IUserController
	AssessmentController   controller.IAssessmentController
	CounsellorController   controller.ICounsellorController
	BookingController      controller.IBookingController
	JournalController      controller.IJournalController
	GroupController        controller.IGroupController
	HealthRecordController controller.IHealthRecordController
	ChatController         controller.IChatController
	DeviceController       controller.IDeviceController
	ReviewController       controller.IReviewController
	ResourceController     controller.IResourceController
	FunctionsController    controller.IFunctionsController
	AdminController        controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService
	Scheduler           *jobs.Scheduler

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
		sysLogger,
	)

	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}
	counsellors, err := counsellor.Load()
	if err != nil {
		return nil, err
	}

	objectStore, err := storage.NewLocalStore(filepath.Clean(cfg.App.UploadDir))
	if err != nil {
		return nil, err
	}

	// 2. Job queue (booking emails)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)

	// 3. LLM Provider; a missing key means features use their offline fallbacks
	var llmProvider llm.LLMProvider
	provider, err := factory.NewLLMProvider(factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   llmAPIKey(cfg),
		Timeout:  cfg.Ai.Timeout,
	})
	switch {
	case errors.Is(err, factory.ErrNotConfigured):
		sysLogger.Warn("Bootstrap", "LLM provider not configured, using fallbacks", map[string]interface{}{"provider": cfg.Ai.LLMProvider})
	case err != nil:
		return nil, err
	default:
		llmProvider = provider
		sysLogger.Info("Bootstrap", "Using LLM provider", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})
	}

	// In-memory stores
	sessionRepo := memory.NewSessionRepository()
	conversations := memory.NewConversationRepository(conversationIdle, conversationMaxTurns)
	chatLimiter := ratelimit.NewRateLimiter(cfg.RateLimit.ChatPerSecond, cfg.RateLimit.ChatBurst)

	c := &Container{Logger: sysLogger}

	// 4. Infrastructure: NATS and Redis are optional in development
	var eventPublisher events.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL == "" {
		sysLogger.Info("Bootstrap", "NATS_URL empty, events disabled", nil)
	} else if nc, err := pktNats.Connect(cfg.App.NatsURL); err != nil {
		sysLogger.Warn("Bootstrap", "NATS unavailable, events disabled", map[string]interface{}{"error": err.Error()})
	} else {
		c.closers = append(c.closers, func() { nc.Drain() })
		eventPublisher, natsSub = natsClients(nc, sysLogger)
	}

	rdb := redisClient(cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	auth := serverutils.NewJwtMiddleware(cfg.Keys.JwtSecret, sessionRepo)
	socketAuth := serverutils.SocketAuth{Secret: cfg.Keys.JwtSecret, Revoked: sessionRepo}

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Jobs.BookingEmailTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.Jobs.BookingEmailTopic, emailService, counsellors, sysLogger)

	authService := service.NewAuthService(uowFactory, emailService, eventPublisher, sessionRepo, cfg.Keys.JwtSecret, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, service.OAuthConfig{
		ClientID:     cfg.Keys.GoogleClientID,
		ClientSecret: cfg.Keys.GoogleClientSecret,
		RedirectURL:  cfg.Keys.GoogleRedirectURL,
		JwtSecret:    cfg.Keys.JwtSecret,
	}, sysLogger)
	userService := service.NewUserService(uowFactory, cat)
	assessmentService := service.NewAssessmentService(uowFactory, cat, eventPublisher, sysLogger)
	counsellorService := service.NewCounsellorService(uowFactory, counsellors)
	bookingService := service.NewBookingService(uowFactory, counsellors, publisherService, emailService, eventPublisher, sysLogger)
	journalService := service.NewJournalService(uowFactory, emailService, sysLogger)
	groupService := service.NewGroupService(uowFactory, cat, wsHub, eventPublisher, sysLogger)
	healthService := service.NewHealthRecordService(uowFactory, objectStore, llmProvider, eventPublisher, cfg.App.BaseURL, sysLogger)
	recordChatService := service.NewRecordChatService(uowFactory, llmProvider, sysLogger)
	chatbotService := service.NewChatbotService(uowFactory, llmProvider, conversations, chatLimiter, sysLogger)
	deviceService := service.NewDeviceService(uowFactory, cat)
	adminService := service.NewAdminService(uowFactory, sysLogger)
	reviewService := service.NewReviewService(uowFactory)
	resourceService := service.NewResourceService(cat)

	// 6. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	var subscriber service.EventSubscriber
	if natsSub != nil {
		subscriber = natsSub
	}
	notifService := service.NewNotificationService(notifRepo, subscriber, wsHub, wsLogger) // Hub implements NotificationDelivery
	notifHandler := handler.NewNotificationHandler(notifService, eventPublisher, wsHub, auth, socketAuth, wsLogger)

	// 7. Jobs
	scheduler := jobs.NewScheduler(sysLogger)
	if err := scheduler.Add(jobs.JournalReminders, cfg.Jobs.JournalReminderCron, jobs.JournalReminderJob(journalService, sysLogger)); err != nil {
		return nil, err
	}
	if err := scheduler.Add(jobs.RateLimitCleanup, "@every 10m", jobs.LimiterCleanupJob(chatLimiter, limiterMaxIdle)); err != nil {
		return nil, err
	}

	// 8. Controllers
	c.AuthController = controller.NewAuthController(authService, auth)
	c.OAuthController = controller.NewOAuthController(oauthService, cfg.App.ClientURL, sysLogger)
	c.UserController = controller.NewUserController(userService, auth)
	c.AssessmentController = controller.NewAssessmentController(assessmentService, auth)
	c.CounsellorController = controller.NewCounsellorController(counsellorService)
	c.BookingController = controller.NewBookingController(bookingService, auth)
	c.JournalController = controller.NewJournalController(journalService, auth)
	c.GroupController = controller.NewGroupController(groupService, userService, wsHub, auth, socketAuth, wsLogger)
	c.HealthRecordController = controller.NewHealthRecordController(healthService, auth)
	c.ChatController = controller.NewChatController(chatbotService, recordChatService, auth)
	c.DeviceController = controller.NewDeviceController(deviceService, auth)
	c.ReviewController = controller.NewReviewController(reviewService, auth)
	c.ResourceController = controller.NewResourceController(resourceService)
	c.FunctionsController = controller.NewFunctionsController(bookingService, healthService, recordChatService, auth)
	c.AdminController = controller.NewAdminController(adminService, auth)

	c.ConsumerService = consumerService
	c.NotificationService = notifService
	c.Scheduler = scheduler
	c.NotificationHandler = notifHandler
	c.WebSocketHub = wsHub
	c.closers = append(c.closers, func() { pubSub.Close() })

	return c, nil
}

// Start launches the hub, the workers and the job scheduler. They stop when
// ctx is cancelled.
func (c *Container) Start(ctx context.Context) {
	go c.WebSocketHub.Run(ctx)

	go func() {
		if err := c.ConsumerService.Consume(ctx); err != nil {
			c.Logger.Error("Bootstrap", "Booking email consumer stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	c.NotificationService.Start()
	c.Scheduler.Start()
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	c.Scheduler.Stop()
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}

func llmAPIKey(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "huggingface" {
		return cfg.Keys.HuggingFace
	}
	return cfg.Keys.GoogleGemini
}

func natsClients(nc *nats.Conn, log logger.ILogger) (events.Publisher, *pktNats.Subscriber) {
	var pub events.Publisher
	if p, err := pktNats.NewPublisher(nc); err != nil {
		log.Warn("Bootstrap", "Failed to create NATS publisher", map[string]interface{}{"error": err.Error()})
	} else {
		pub = p
	}

	sub, err := pktNats.NewSubscriber(nc)
	if err != nil {
		log.Warn("Bootstrap", "Failed to create NATS subscriber", map[string]interface{}{"error": err.Error()})
		return pub, nil
	}
	return pub, sub
}

// redisClient returns nil when redis is unreachable; the hub then works
// on a single instance.
func redisClient(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Bootstrap", "Redis unavailable, realtime fan-out is local only", map[string]interface{}{"error": err.Error()})
		rdb.Close()
		return nil
	}
	return rdb
}
