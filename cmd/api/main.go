package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pulseofproject/internal/assistant"
	"pulseofproject/internal/config"
	"pulseofproject/internal/db"
	"pulseofproject/internal/handler"
	"pulseofproject/internal/httpserver"
	"pulseofproject/internal/repository"
	"pulseofproject/internal/service/auth"
	"pulseofproject/internal/service/project"
	"pulseofproject/internal/tracker"
	"pulseofproject/pkg/logger"
	"pulseofproject/pkg/mq"
	"pulseofproject/pkg/outbox"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := logger.NewLogger()
	defer logger.Sync()

	// DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Repositories
	userRepo := repository.NewUserRepository(dbConn, logger)
	projectRepo := repository.NewProjectRepository(dbConn, logger)
	milestoneRepo := repository.NewMilestoneRepository(dbConn, logger)
	taskRepo := repository.NewTaskRepository(dbConn, logger)
	riskRepo := repository.NewRiskRepository(dbConn, logger)
	teamRepo := repository.NewTeamMemberRepository(dbConn, logger)
	notificationRepo := repository.NewNotificationRepository(dbConn, logger)

	// MQ publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Services
	authService := auth.NewService(userRepo, cfg.JWT.Secret, logger)
	projectService := project.NewService(projectRepo, milestoneRepo, taskRepo, riskRepo, teamRepo, logger)

	// Tracker store: optimistic local state with background persistence
	notifier := tracker.NewMQNotifier(publisher, logger)
	store := tracker.NewStore(milestoneRepo, projectService, notifier, logger)

	// Assistant
	upstream := assistant.NewUpstreamClient(cfg.Assistant)
	assistantService := assistant.NewService(upstream, nil, logger)

	// Outbox dispatcher for events written alongside DB rows
	outboxRepo := outbox.NewRepository(dbConn)
	dispatcher := outbox.NewDispatcher(outboxRepo, publisher, logger)
	go dispatcher.Start(context.Background())

	// Handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	projectHandler := handler.NewProjectHandler(store, projectService, logger)
	deliverableHandler := handler.NewDeliverableHandler(store, logger)
	chatHandler := handler.NewChatHandler(assistantService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, logger)

	router := httpserver.NewRouter(
		authHandler,
		projectHandler,
		deliverableHandler,
		chatHandler,
		notificationHandler,
		cfg.JWT.Secret,
		dbConn,
	)

	go func() {
		logger.Info("Starting API server", zap.String("port", cfg.Server.Port))
		if err := router.Run(":" + cfg.Server.Port); err != nil {
			logger.Fatal("server start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Let in-flight milestone writes settle before exit.
	logger.Info("Shutting down, draining background persists")
	store.Wait()
}
