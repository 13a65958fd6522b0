package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stresszero/quizbot-service/internal/assistant"
	"github.com/stresszero/quizbot-service/internal/cache"
	"github.com/stresszero/quizbot-service/internal/config"
	"github.com/stresszero/quizbot-service/internal/content"
	"github.com/stresszero/quizbot-service/internal/events"
	"github.com/stresszero/quizbot-service/internal/handlers"
	"github.com/stresszero/quizbot-service/internal/repositories"
	"github.com/stresszero/quizbot-service/internal/services"
	"github.com/stresszero/quizbot-service/internal/utils"
	"github.com/stresszero/quizbot-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	cacheService := cache.NewRedisCache(redisClient)
	sessionStore := repositories.NewSessionStore(cacheService, 24*time.Hour)

	assistantClient := assistant.NewClient(assistant.Config{
		APIKey:           cfg.OpenAIAPIKey,
		QuizAssistantID:  cfg.QuizBotAssistantID,
		VectorStoreID:    cfg.QuizVectorStoreID,
		TrackingThreadID: cfg.LearningMateThreadID,
	}, slogger)

	// Quiz lifecycle events are best effort: without a broker the
	// service still generates and grades quizzes
	var publisher events.EventPublisher
	kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.KafkaBrokers,
		TopicName:    cfg.QuizEventsTopic,
		Logger:       slogger,
	})
	if err != nil {
		logger.Warn("Kafka publisher unavailable, quiz events disabled", "error", err)
	} else {
		publisher = kafkaPublisher
		defer kafkaPublisher.Close()
	}

	reporter := services.NewReportService(assistantClient, slogger, cfg.RequestTimeout)
	sessionService := services.NewSessionService(sessionStore, assistantClient, reporter, publisher, slogger)
	exportService := services.NewExportService(sessionStore, slogger)
	acquirer := content.NewAcquirer(cfg.UploadDir, slogger)

	validator := utils.NewValidator()
	cookieStore := handlers.NewSessionCookieStore(cfg.SessionSecret)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(
		sessionService,
		exportService,
		acquirer,
		cookieStore,
		validator,
		logger,
	)
	handlerManager.SetupRoutes(router)

	logger.Info("Starting quizbot service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
