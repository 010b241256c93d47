package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paintrack/backend/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Models lists every table owned by the application, in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.PainEntry{},
		&models.Medication{},
		&models.MedicationDose{},
		&models.ReminderSetting{},
		&models.Session{},
	}
}

// RunMigrations brings the schema up to date. SQLite (tests, local runs) uses
// GORM auto-migration; PostgreSQL applies the embedded SQL files with
// golang-migrate.
func RunMigrations(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		return db.WithContext(ctx).AutoMigrate(Models()...)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return ApplySQLMigrations(ctx, sqlDB, log)
}

// ApplySQLMigrations brings a PostgreSQL database up to the latest embedded
// migration. A database that is already current is not an error.
func ApplySQLMigrations(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	// Get a dedicated connection so closing the migrator leaves the pool open
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create migration source driver: %w", err)
	}

	dbDriver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		_ = dbDriver.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{log: log.Sugar()}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn("failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug("database migrations: no changes detected (already up to date)")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	log.Info("database migrations applied", zap.Uint("version", version))
	return nil
}

// migrateLogger routes golang-migrate output to zap at debug level.
type migrateLogger struct {
	log *zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Debugf(strings.TrimSpace(format), v...)
}

func (l migrateLogger) Verbose() bool {
	return false
}
