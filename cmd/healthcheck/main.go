// Command healthcheck exits 0 when the database answers SELECT NOW(), 1 otherwise.
// It is meant for container HEALTHCHECK directives.
package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/duynhne/user-profile-service/config"
	database "github.com/duynhne/user-profile-service/internal/core"
	"github.com/duynhne/user-profile-service/middleware"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	logger, err := middleware.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return 1
	}
	defer logger.Sync()

	pool, err := database.Connect(context.Background(), cfg.Database)
	if err != nil {
		logger.Error("Health check failed", zap.Error(err))
		return 1
	}
	defer pool.Close()

	check := pool.CheckConnection(context.Background())
	if !check.Connected {
		logger.Error("Health check failed", zap.String("error", check.Error))
		return 1
	}

	status := pool.Status()
	logger.Info("Health check passed",
		zap.Timep("database_time", check.Timestamp),
		zap.Int32("total_connections", status.TotalCount),
		zap.Int32("idle_connections", status.IdleCount),
		zap.Int32("max_connections", status.MaxConns),
	)
	return 0
}
