// Command sweep deactivates subscriptions past their expiry. Run it from cron.
package main

import (
	"context"
	"log"
	"time"

	"staysphere/internal/config"
	"staysphere/internal/database"
	"staysphere/internal/domain/property"
	"staysphere/internal/domain/subscription"
	"staysphere/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, database.WithLogger(logger))
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	svc := subscription.NewService(subscription.NewRepository(db), property.NewRepository(db), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := svc.CheckExpiredSubscriptions(ctx)
	if err != nil {
		logger.Fatal("subscription sweep failed", zap.Int("deactivated", n), zap.Error(err))
	}
	logger.Info("subscription sweep completed", zap.Int("deactivated", n))
}
