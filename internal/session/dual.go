package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paintrack/backend/internal/models"
)

// DBSource returns the database handle while it is usable.
type DBSource func() (*gorm.DB, bool)

// FailureReporter is told when the database fails a session query, so the
// owner of the connection can mark it unhealthy.
type FailureReporter func(op string, err error)

// Dual writes sessions to the database while it is available and to memory
// otherwise. Reads follow the same rule: in-memory sessions name users of the
// in-memory store, so they are ignored while the database is available and
// come back only if it is lost again.
type Dual struct {
	source DBSource
	mem    *MemoryStore
	report FailureReporter
	log    *zap.Logger
}

var _ Store = (*Dual)(nil)

func NewDual(source DBSource, report FailureReporter, log *zap.Logger) *Dual {
	if log == nil {
		log = zap.NewNop()
	}
	if report == nil {
		report = func(string, error) {}
	}
	return &Dual{source: source, mem: NewMemoryStore(), report: report, log: log.Named("session")}
}

func (d *Dual) db() (*GormStore, bool) {
	if d.source == nil {
		return nil, false
	}
	db, ok := d.source()
	if !ok {
		return nil, false
	}
	return NewGormStore(db), true
}

func (d *Dual) failed(ctx context.Context, op string, err error) {
	if ctx.Err() != nil {
		return
	}
	d.log.Warn("session database query failed, using in-memory sessions", zap.String("op", op), zap.Error(err))
	d.report(op, err)
}

func (d *Dual) Create(ctx context.Context, sess *models.Session) error {
	if db, ok := d.db(); ok {
		err := db.Create(ctx, sess)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			// the user only exists in the in-memory store
		default:
			d.failed(ctx, "create session", err)
		}
	}
	return d.mem.Create(ctx, sess)
}

func (d *Dual) Get(ctx context.Context, id string) (*models.Session, error) {
	if db, ok := d.db(); ok {
		sess, err := db.Get(ctx, id)
		if err == nil || errors.Is(err, ErrNotFound) {
			return sess, err
		}
		d.failed(ctx, "get session", err)
	}
	return d.mem.Get(ctx, id)
}

func (d *Dual) Delete(ctx context.Context, id string) error {
	if db, ok := d.db(); ok {
		if err := db.Delete(ctx, id); err != nil {
			d.failed(ctx, "delete session", err)
		}
	}
	return d.mem.Delete(ctx, id)
}

func (d *Dual) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	n, _ := d.mem.DeleteExpired(ctx, now)
	if db, ok := d.db(); ok {
		m, err := db.DeleteExpired(ctx, now)
		if err != nil {
			d.failed(ctx, "delete expired sessions", err)
			return n, nil
		}
		n += m
	}
	return n, nil
}
