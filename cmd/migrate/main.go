// migrate runs DB migrations from embedded SQL; use with go run ./cmd/migrate.
package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"business-nexus/backend/internal/config"
	"business-nexus/backend/internal/db/migrate"
	"business-nexus/backend/internal/logging"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	dir, err := migrate.ParseDirection(*direction)
	if err != nil {
		logger.Fatal(err.Error())
	}
	if err := migrate.Run(cfg.DatabaseURL, dir, logger); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}
}
