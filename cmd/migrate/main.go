package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"pulseofproject/internal/config"
	"pulseofproject/internal/db"
	"pulseofproject/pkg/logger"
)

var requiredTables = []string{
	"users",
	"projects",
	"milestones",
	"tasks",
	"risks",
	"team_members",
	"notifications",
	"outbox_events",
}

// Applies migrations/schema.sql and verifies the expected tables exist.
func main() {
	schemaPath := flag.String("schema", "migrations/schema.sql", "path to schema file")
	verifyOnly := flag.Bool("verify", false, "only verify tables, do not apply schema")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := logger.NewLogger()
	defer logger.Sync()

	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !*verifyOnly {
		schema, err := os.ReadFile(*schemaPath)
		if err != nil {
			logger.Fatal("Failed to read schema file",
				zap.String("path", *schemaPath),
				zap.Error(err),
			)
		}

		if _, err := dbConn.Exec(ctx, string(schema)); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		logger.Info("Schema applied", zap.String("path", *schemaPath))
	}

	for _, table := range requiredTables {
		var exists bool
		err := dbConn.QueryRow(ctx,
			`SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)`, table,
		).Scan(&exists)
		if err != nil {
			logger.Fatal("Failed to check table", zap.String("table", table), zap.Error(err))
		}
		if !exists {
			logger.Fatal("Missing table", zap.String("table", table))
		}
		logger.Info("Table verified", zap.String("table", table))
	}

	logger.Info("Migration complete")
}
