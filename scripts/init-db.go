package main

import (
	"context"
	"flag"
	"log"

	"restaurant_backend/internal/config"
	"restaurant_backend/internal/database"
	"restaurant_backend/internal/logging"
	"restaurant_backend/internal/migrations"

	"go.uber.org/zap"
)

func main() {
	reset := flag.Bool("reset", false, "drop every table before migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := logging.NewLogger(cfg.ServiceName+"-init-db", cfg.AppEnv)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if *reset {
		if err := migrations.Reset(db, logger); err != nil {
			logger.Warn("error dropping tables", zap.Error(err))
		}
	}

	seed := migrations.Seed{ManagerEmail: cfg.SeedManagerEmail, ManagerPassword: cfg.SeedManagerPassword}
	if err := migrations.RunMigrations(context.Background(), db, seed, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database initialization completed")
}
