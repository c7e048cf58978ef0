package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/duynhne/user-profile-service/config"
	database "github.com/duynhne/user-profile-service/internal/core"
	"github.com/duynhne/user-profile-service/internal/core/migrations"
	"github.com/duynhne/user-profile-service/internal/core/repository/psql"
	logicv1 "github.com/duynhne/user-profile-service/internal/logic/v1"
	v1 "github.com/duynhne/user-profile-service/internal/web/v1"
	"github.com/duynhne/user-profile-service/middleware"
)

func main() {
	// Load configuration from environment variables (with .env file support for local dev)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	logger, err := middleware.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.IsProduction() && slices.Contains(cfg.CORS.AllowedOrigins, "*") {
		logger.Warn("CORS allows any origin in production", zap.Strings("allowed_origins", cfg.CORS.AllowedOrigins))
	}

	logger.Info("Service starting",
		zap.String("service", cfg.Service.Name),
		zap.String("version", cfg.Service.Version),
		zap.String("env", cfg.Service.Env),
		zap.String("addr", cfg.Addr()),
	)

	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		tp, err = middleware.InitTracing(cfg)
		if err != nil {
			logger.Warn("Failed to initialize tracing", zap.Error(err))
			tp = nil
		} else {
			logger.Info("Tracing initialized",
				zap.String("endpoint", cfg.Tracing.Endpoint),
				zap.Float64("sample_rate", cfg.Tracing.SampleRate),
			)
		}
	} else {
		logger.Info("Tracing disabled (TRACING_ENABLED=false)")
	}

	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg); err != nil {
			logger.Warn("Failed to initialize profiling", zap.Error(err))
		} else {
			logger.Info("Profiling initialized", zap.String("endpoint", cfg.Profiling.Endpoint))
			defer middleware.StopProfiling()
		}
	} else {
		logger.Info("Profiling disabled (PROFILING_ENABLED=false)")
	}

	pool, err := database.Connect(context.Background(), cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	// Refuse to start (and never bind the port) when the database is unreachable.
	if check := pool.CheckConnection(context.Background()); !check.Connected {
		pool.Close()
		logger.Fatal("Database connection failed", zap.String("error", check.Error))
	}
	logger.Info("Database connection pool established",
		zap.Int("max_connections", cfg.Database.MaxConnections),
		zap.Duration("idle_timeout", cfg.Database.IdleTimeout),
		zap.Duration("connect_timeout", cfg.Database.ConnectTimeout),
	)

	if cfg.Database.AutoMigrate {
		db := pool.SQLDB()
		err := migrations.Up(context.Background(), db)
		_ = db.Close()
		if err != nil {
			pool.Close()
			logger.Fatal("Database migration failed", zap.Error(err))
		}
		logger.Info("Database migrations applied")
	}

	if cfg.Metrics.Enabled {
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool); err != nil {
			logger.Warn("Failed to register pool metrics", zap.Error(err))
		}
	}

	var isShuttingDown atomic.Bool

	repo := psql.NewProfileRepository(pool)
	service := logicv1.NewProfileService(repo)

	routerOpts := v1.RouterOptions{
		Logger:         logger,
		Profile:        v1.NewProfileHandler(service),
		Health:         v1.NewHealthHandler(pool, cfg.Service.Version, &isShuttingDown),
		TracingEnabled: tp != nil,
	}
	if cfg.Metrics.Enabled {
		routerOpts.MetricsPath = cfg.Metrics.Path
	}
	r := v1.NewRouter(routerOpts)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           middleware.CORS(r, cfg.CORS.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting user profile service", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		logger.Error("HTTP server failed", zap.Error(err))
		exitCode = 1
	}

	// Fail readiness first so load balancers stop routing before the listener closes.
	isShuttingDown.Store(true)
	if drainDelay := cfg.GetReadinessDrainDelayDuration(); drainDelay > 0 && exitCode == 0 {
		logger.Info("Readiness drain delay started", zap.Duration("delay", drainDelay))
		time.Sleep(drainDelay)
	}

	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server...", zap.Duration("timeout", shutdownTimeout))

	// HTTP server → database → tracer
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
		exitCode = 1
	} else {
		logger.Info("HTTP server shutdown complete")
	}

	pool.Close()
	logger.Info("Database pool closed")

	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("Tracer shutdown error", zap.Error(err))
		} else {
			logger.Info("Tracer shutdown complete")
		}
	}

	if exitCode != 0 {
		_ = logger.Sync()
		os.Exit(exitCode)
	}
	logger.Info("Graceful shutdown complete")
}
