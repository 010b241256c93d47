package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/paintrack/backend/internal/database"
)

// PostgresDialer opens a PostgreSQL pool, applies pending migrations and
// wraps the handle in a PrimaryStore. loc sets the day boundaries used for
// dose tracking and pattern detection.
func PostgresDialer(opts database.Options, loc *time.Location, log *zap.Logger) Dialer {
	return func(ctx context.Context) (Primary, error) {
		db, err := database.Open(ctx, opts, log)
		if err != nil {
			return nil, &UnavailableError{Op: "dial", Err: err}
		}
		if err := database.RunMigrations(ctx, db, log); err != nil {
			_ = database.Close(db)
			return nil, &UnavailableError{Op: "migrate", Err: fmt.Errorf("failed to run migrations: %w", err)}
		}
		return NewPrimaryStore(db).WithClock(nil, loc), nil
	}
}
