package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"pulseofproject/internal/config"
	"pulseofproject/internal/db"
	"pulseofproject/internal/mqhandler"
	redisclient "pulseofproject/internal/redis"
	"pulseofproject/internal/repository"
	"pulseofproject/internal/service/notify"
	"pulseofproject/pkg/logger"
	"pulseofproject/pkg/mq"
	"pulseofproject/pkg/outbox"
	"pulseofproject/pkg/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := logger.NewLogger()
	defer logger.Sync()

	logger.Info("Starting worker...")

	// Redis
	rdb := redisclient.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour)
	retryCounter := util.NewRetryCounter(rdb, time.Hour)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	logger.Info("DB ready")

	notificationRepo := repository.NewNotificationRepository(dbConn, logger)
	notifyService := notify.NewService(dbConn, notificationRepo, logger)

	// Publisher handles both DLQ routing and outbox-dispatched events.
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	if err := publisher.SetupDLQ("deliverable.toggled", "milestone.sync_failed"); err != nil {
		logger.Fatal("Failed to set up DLQ", zap.Error(err))
	}

	toggledHandler := mqhandler.NewDeliverableToggledHandler(
		notifyService, deduper, retryCounter, publisher, logger,
	)
	syncFailedHandler := mqhandler.NewSyncFailedHandler(
		notifyService, deduper, retryCounter, publisher, logger,
	)

	// -------------------------
	// Deliverable Toggled Consumer
	// -------------------------
	logger.Info("Init consumer: deliverable.toggled.q")
	consumerToggled, err := mq.NewConsumer(
		cfg.MQ.URL,
		"deliverable.toggled.q",
		"deliverable.toggled",
		logger,
	)
	if err != nil {
		logger.Fatal("Toggled consumer init failed", zap.Error(err))
	}
	consumerToggled.SetHandler(toggledHandler.HandleMessage)

	go func() {
		if err := consumerToggled.StartConsuming(); err != nil {
			logger.Fatal("Toggled consumer crashed", zap.Error(err))
		}
	}()
	defer consumerToggled.Close()

	// -------------------------
	// Sync Failed Consumer
	// -------------------------
	logger.Info("Init consumer: milestone.sync_failed.q")
	consumerSyncFailed, err := mq.NewConsumer(
		cfg.MQ.URL,
		"milestone.sync_failed.q",
		"milestone.sync_failed",
		logger,
	)
	if err != nil {
		logger.Fatal("Sync-failed consumer init failed", zap.Error(err))
	}
	consumerSyncFailed.SetHandler(syncFailedHandler.HandleMessage)

	go func() {
		if err := consumerSyncFailed.StartConsuming(); err != nil {
			logger.Fatal("Sync-failed consumer crashed", zap.Error(err))
		}
	}()
	defer consumerSyncFailed.Close()

	// Outbox dispatcher publishes notification.created events committed by
	// the handlers above.
	outboxRepo := outbox.NewRepository(dbConn)
	dispatcher := outbox.NewDispatcher(outboxRepo, publisher, logger)
	go dispatcher.Start(context.Background())

	logger.Info("Worker running")
	select {}
}
