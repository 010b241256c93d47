package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/paintrack/backend/internal/database"
	"github.com/paintrack/backend/internal/logging"
)

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "Maximum time to spend applying migrations")
	flag.Parse()

	log, err := logging.New("info", "console", "paintrack-migrate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.OpenSQL(ctx, database.Options{DSN: dsn})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.ApplySQLMigrations(ctx, db, log); err != nil {
		log.Fatal("failed to apply migrations", zap.Error(err))
	}
	log.Info("migrations are up to date")
}
