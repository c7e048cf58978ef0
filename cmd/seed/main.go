// Command seed inserts sample user profiles for local development.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duynhne/user-profile-service/config"
	"github.com/duynhne/user-profile-service/internal/core/migrations"
	"github.com/duynhne/user-profile-service/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var migrate bool
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Insert sample user profiles",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before seeding")

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, migrate bool) error {
	cfg := config.Load()

	logger, err := middleware.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Database.URL == "" {
		logger.Error("DATABASE_URL is required")
		return errors.New("DATABASE_URL is required")
	}

	db, err := migrations.Open(cfg.Database.URL)
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))
		return err
	}
	defer db.Close()

	if migrate {
		if err := migrations.Up(ctx, db); err != nil {
			logger.Error("Migration failed", zap.Error(err))
			return err
		}
	}

	n, err := migrations.Seed(ctx, db, migrations.SampleProfiles)
	if err != nil {
		logger.Error("Seeding failed", zap.Error(err))
		return err
	}
	logger.Info("Sample profiles inserted", zap.Int64("rows", n))
	return nil
}
