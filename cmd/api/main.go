package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/paintrack/backend/config"
	"github.com/paintrack/backend/internal/logging"
	"github.com/paintrack/backend/internal/server"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, "paintrack-api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL is not set, all data is kept in memory and lost on restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to create server", zap.Error(err))
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr()), zap.String("env", string(cfg.Env)))
		errChan <- srv.Start()
	}()

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Error("server error", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
		os.Exit(1)
	}
}
