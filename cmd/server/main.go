package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/config"
	"github.com/AnahoretN/NexusGameTable-sub000/internal/server"
	"github.com/AnahoretN/NexusGameTable-sub000/internal/storage"
	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting nexus table server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Snapshot persistence: PostgreSQL when configured, otherwise flat
	// files under the save directory.
	var saves server.SaveStore
	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		connectCtx, connectCancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
		pool, err = pgxpool.New(connectCtx, cfg.Database.URL)
		if err == nil {
			err = pool.Ping(connectCtx)
		}
		connectCancel()
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		pg := storage.NewPostgresStore(pool, logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to ensure database schema", zap.Error(err))
		}
		saves = pg

		stats := pool.Stat()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)
	} else {
		saves = storage.NewFileStore(cfg.Room.SaveDir, logger)
		logger.Info("file persistence initialized",
			zap.String("save_dir", cfg.Room.SaveDir),
		)
	}

	recorder := table.NewRecorder(logger, cfg.Room.JournalEnabled, cfg.Room.JournalDir)
	if cfg.Room.JournalEnabled {
		logger.Info("action journaling enabled",
			zap.String("journal_dir", cfg.Room.JournalDir),
		)
	}

	hub := server.NewHub(recorder, logger)
	logger.Info("room hub initialized")

	handler := server.NewHandler(hub, saves, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(server.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	handler.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("address", cfg.Server.Address))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(serveErr))
			sigChan <- syscall.SIGTERM
		}
	}()

	logger.Info("nexus table server initialized",
		zap.String("version", version),
		zap.String("address", cfg.Server.Address),
		zap.Bool("database", pool != nil),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", zap.Error(err))
	}

	logger.Info("nexus table server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
