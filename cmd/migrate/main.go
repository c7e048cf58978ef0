// Command migrate applies or inspects the user_profiles schema migrations.
//
//	DATABASE_URL=postgresql://... migrate up|down|status|reset
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

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the user_profiles database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		commandFor(migrations.CommandUp, "Apply all pending migrations"),
		commandFor(migrations.CommandDown, "Roll back the most recent migration"),
		commandFor(migrations.CommandStatus, "Print the status of every migration"),
		commandFor(migrations.CommandReset, "Roll back all migrations"),
	)

	return root
}

func commandFor(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), name)
		},
	}
}

func run(ctx context.Context, command string) error {
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

	logger.Info("Running migrations", zap.String("command", command))
	if err := migrations.Run(ctx, db, command); err != nil {
		logger.Error("Migration failed", zap.String("command", command), zap.Error(err))
		return err
	}
	logger.Info("Migrations complete", zap.String("command", command))
	return nil
}
