package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paintrack/backend/internal/models"
)

// Mode is the Facade's routing state.
type Mode int

const (
	ModeUninitialized Mode = iota
	ModeProbing
	ModeHealthy
	ModeDegraded
	ModeClosed
)

func (m Mode) String() string {
	switch m {
	case ModeUninitialized:
		return "uninitialized"
	case ModeProbing:
		return "probing"
	case ModeHealthy:
		return "healthy"
	case ModeDegraded:
		return "degraded"
	case ModeClosed:
		return "closed"
	}
	return "unknown"
}

var ErrAlreadyInitialized = errors.New("storage facade already initialized")

// Options configures a Facade. A nil Dialer means no database is configured
// and the Facade serves everything from the fallback store.
type Options struct {
	Dialer       Dialer
	Fallback     *MemoryStore
	Backoff      Backoff
	ProbeTimeout time.Duration
	Logger       *zap.Logger

	// Jitter returns values in [0,1) for reconnection jitter. Defaults to
	// math/rand.
	Jitter func() float64
}

// Status is a snapshot of the Facade's health for the status endpoint.
type Status struct {
	Mode              string    `json:"mode"`
	Durable           bool      `json:"durable"`
	ReconnectAttempts int       `json:"reconnect_attempts"`
	ReconnectPending  bool      `json:"reconnect_pending"`
	GaveUp            bool      `json:"gave_up"`
	Since             time.Time `json:"since"`
}

// Facade is the storage entry point for the rest of the application. While
// Healthy it serves calls from the primary store; any primary failure flips it
// to Degraded, the call is replayed on the fallback store and a reconnection
// is scheduled. Writes made while Degraded are not copied back to the primary
// after recovery.
type Facade struct {
	mu       sync.Mutex
	mode     Mode
	since    time.Time
	primary  Primary
	fallback *MemoryStore

	dial         Dialer
	backoff      Backoff
	probeTimeout time.Duration
	jitter       func() float64
	log          *zap.Logger

	attempts int
	timer    *time.Timer
	gaveUp   bool
}

var _ Store = (*Facade)(nil)

func NewFacade(opts Options) *Facade {
	f := &Facade{
		mode:         ModeUninitialized,
		since:        time.Now(),
		fallback:     opts.Fallback,
		dial:         opts.Dialer,
		backoff:      opts.Backoff.withDefaults(),
		probeTimeout: opts.ProbeTimeout,
		jitter:       opts.Jitter,
		log:          opts.Logger,
	}
	if f.fallback == nil {
		f.fallback = NewMemoryStore()
	}
	if f.probeTimeout <= 0 {
		f.probeTimeout = 5 * time.Second
	}
	if f.jitter == nil {
		f.jitter = defaultJitterSource
	}
	if f.log == nil {
		f.log = zap.NewNop()
	}
	f.log = f.log.Named("storage")
	return f
}

// Init probes the primary store. It returns an error only when called twice;
// an unreachable database leaves the Facade Degraded with a reconnection
// scheduled.
func (f *Facade) Init(ctx context.Context) error {
	f.mu.Lock()
	if f.mode != ModeUninitialized {
		f.mu.Unlock()
		return ErrAlreadyInitialized
	}
	f.setModeLocked(ModeProbing)
	f.mu.Unlock()

	if f.dial == nil {
		f.mu.Lock()
		f.setModeLocked(ModeDegraded)
		f.mu.Unlock()
		f.log.Warn("no database configured, serving from in-memory fallback store; data will not survive a restart")
		return nil
	}

	p, err := f.probe(ctx, nil)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeClosed {
		if p != nil {
			_ = p.Close()
		}
		return nil
	}
	if err != nil {
		f.setModeLocked(ModeDegraded)
		f.log.Error("primary store unreachable at startup, serving from fallback store", zap.Error(err))
		f.scheduleLocked()
		return nil
	}
	f.primary = p
	f.setModeLocked(ModeHealthy)
	f.log.Info("primary store healthy")
	return nil
}

// Shutdown cancels any pending reconnection and closes the primary store.
func (f *Facade) Shutdown(_ context.Context) error {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	p := f.primary
	f.primary = nil
	f.setModeLocked(ModeClosed)
	f.mu.Unlock()

	f.log.Info("storage facade shut down")
	if p != nil {
		return p.Close()
	}
	return nil
}

func (f *Facade) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Durable reports whether writes currently land in the primary store.
func (f *Facade) Durable() bool {
	return f.Mode() == ModeHealthy
}

func (f *Facade) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Status{
		Mode:              f.mode.String(),
		Durable:           f.mode == ModeHealthy,
		ReconnectAttempts: f.attempts,
		ReconnectPending:  f.timer != nil,
		GaveUp:            f.gaveUp,
		Since:             f.since,
	}
}

// Primary returns the primary store while the Facade is Healthy.
func (f *Facade) Primary() (Primary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode != ModeHealthy || f.primary == nil {
		return nil, false
	}
	return f.primary, true
}

// DB returns the primary's GORM handle while the Facade is Healthy, for
// collaborators that keep their own tables in the same database.
func (f *Facade) DB() (*gorm.DB, bool) {
	p, ok := f.Primary()
	if !ok {
		return nil, false
	}
	h, ok := p.(interface{ DB() *gorm.DB })
	if !ok {
		return nil, false
	}
	return h.DB(), true
}

// Fallback exposes the in-memory store, mainly for tests and diagnostics.
func (f *Facade) Fallback() *MemoryStore {
	return f.fallback
}

// ReportFailure lets collaborators sharing the primary connection (such as
// the session store) signal that it failed.
func (f *Facade) ReportFailure(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.degradeLocked(op, err)
}

func (f *Facade) setModeLocked(m Mode) {
	if f.mode == m {
		return
	}
	f.mode = m
	f.since = time.Now()
}

func (f *Facade) degradeLocked(op string, err error) {
	if f.mode != ModeHealthy {
		return
	}
	f.setModeLocked(ModeDegraded)
	f.log.Error("primary store failed, switching to fallback store",
		zap.String("op", op), zap.Error(err))
	f.scheduleLocked()
}

// scheduleLocked arms the single reconnection timer unless one is pending or
// the attempt budget is spent.
func (f *Facade) scheduleLocked() {
	if f.mode == ModeClosed || f.gaveUp || f.timer != nil {
		return
	}
	if f.dial == nil && f.primary == nil {
		return
	}
	if f.attempts >= f.backoff.MaxAttempts {
		f.gaveUp = true
		f.log.Error("reconnection attempts exhausted, staying on fallback store until restart; new data is not durable",
			zap.Int("attempts", f.attempts))
		return
	}
	delay := f.backoff.Delay(f.attempts, f.jitter)
	f.log.Info("scheduling primary store reconnection",
		zap.Int("attempt", f.attempts+1), zap.Duration("delay", delay))
	f.timer = time.AfterFunc(delay, f.reconnect)
}

func (f *Facade) reconnect() {
	f.mu.Lock()
	if f.mode == ModeClosed {
		f.timer = nil
		f.mu.Unlock()
		return
	}
	held := f.primary
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), f.probeTimeout)
	defer cancel()
	p, err := f.probe(ctx, held)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.timer = nil
	if f.mode == ModeClosed {
		if p != nil && p != held {
			_ = p.Close()
		}
		return
	}
	if err != nil {
		f.attempts++
		f.log.Warn("primary store reconnection failed",
			zap.Int("attempt", f.attempts), zap.Error(err))
		f.scheduleLocked()
		return
	}
	f.primary = p
	f.attempts = 0
	f.setModeLocked(ModeHealthy)
	f.log.Info("primary store recovered; writes made while degraded remain only in the fallback store")
}

// probe pings the held primary, or dials a new one when none is held.
func (f *Facade) probe(ctx context.Context, held Primary) (Primary, error) {
	ctx, cancel := context.WithTimeout(ctx, f.probeTimeout)
	defer cancel()

	p := held
	if p == nil {
		var err error
		p, err = f.dial(ctx)
		if err != nil {
			return nil, err
		}
	}
	if err := p.Ping(ctx); err != nil {
		if p != held {
			_ = p.Close()
		}
		return nil, err
	}
	return p, nil
}

func (f *Facade) healthyPrimary() Primary {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode != ModeHealthy {
		return nil
	}
	return f.primary
}

func (f *Facade) markFailed(p Primary, op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.primary != p {
		return
	}
	f.degradeLocked(op, err)
}

// route runs fn against the primary while Healthy and replays it on the
// fallback store when the primary fails for a non-domain reason.
func route[T any](ctx context.Context, f *Facade, op string, write bool, fn func(Store) (T, error)) (T, error) {
	if p := f.healthyPrimary(); p != nil {
		v, err := fn(p)
		if err == nil || IsDomainError(err) {
			return v, err
		}
		if ctx.Err() != nil {
			var zero T
			return zero, ctx.Err()
		}
		f.markFailed(p, op, err)
	}

	v, err := fn(f.fallback)
	if err == nil && write {
		f.log.Warn("write served by fallback store, data is not durable", zap.String("op", op))
	}
	return v, err
}

func (f *Facade) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return route(ctx, f, "get user", false, func(s Store) (*models.User, error) {
		return s.GetUser(ctx, id)
	})
}

func (f *Facade) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return route(ctx, f, "get user by username", false, func(s Store) (*models.User, error) {
		return s.GetUserByUsername(ctx, username)
	})
}

func (f *Facade) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := validateUser(user); err != nil {
		return nil, err
	}
	return route(ctx, f, "create user", true, func(s Store) (*models.User, error) {
		return s.CreateUser(ctx, user)
	})
}

func (f *Facade) UpdateUser(ctx context.Context, id uint, patch *models.UserPatch) (*models.User, error) {
	return route(ctx, f, "update user", true, func(s Store) (*models.User, error) {
		return s.UpdateUser(ctx, id, patch)
	})
}

func (f *Facade) CreatePainEntry(ctx context.Context, entry *models.PainEntry) (*models.PainEntry, error) {
	if err := ValidatePainEntry(entry); err != nil {
		return nil, err
	}
	return route(ctx, f, "create pain entry", true, func(s Store) (*models.PainEntry, error) {
		return s.CreatePainEntry(ctx, entry)
	})
}

func (f *Facade) GetPainEntriesByUser(ctx context.Context, userID uint) ([]models.PainEntry, error) {
	return route(ctx, f, "list pain entries", false, func(s Store) ([]models.PainEntry, error) {
		return s.GetPainEntriesByUser(ctx, userID)
	})
}

func (f *Facade) GetRecentPainEntries(ctx context.Context, userID uint, limit int) ([]models.PainEntry, error) {
	if limit < 0 {
		return nil, invalid("limit", "must not be negative, got %d", limit)
	}
	return route(ctx, f, "list recent pain entries", false, func(s Store) ([]models.PainEntry, error) {
		return s.GetRecentPainEntries(ctx, userID, limit)
	})
}

func (f *Facade) GetPainTrend(ctx context.Context, userID uint, days int) ([]models.PainEntry, error) {
	if days <= 0 {
		return nil, invalid("days", "must be positive, got %d", days)
	}
	return route(ctx, f, "pain trend", false, func(s Store) ([]models.PainEntry, error) {
		return s.GetPainTrend(ctx, userID, days)
	})
}

func (f *Facade) GetTriggerStats(ctx context.Context, userID uint) ([]models.TriggerStat, error) {
	return route(ctx, f, "trigger stats", false, func(s Store) ([]models.TriggerStat, error) {
		return s.GetTriggerStats(ctx, userID)
	})
}

func (f *Facade) GetPatterns(ctx context.Context, userID uint) ([]models.Pattern, error) {
	return route(ctx, f, "patterns", false, func(s Store) ([]models.Pattern, error) {
		return s.GetPatterns(ctx, userID)
	})
}

func (f *Facade) CreateMedication(ctx context.Context, med *models.Medication) (*models.Medication, error) {
	if err := validateMedication(med); err != nil {
		return nil, err
	}
	return route(ctx, f, "create medication", true, func(s Store) (*models.Medication, error) {
		return s.CreateMedication(ctx, med)
	})
}

func (f *Facade) GetMedicationsByUser(ctx context.Context, userID uint) ([]models.Medication, error) {
	return route(ctx, f, "list medications", false, func(s Store) ([]models.Medication, error) {
		return s.GetMedicationsByUser(ctx, userID)
	})
}

func (f *Facade) GetTodayMedications(ctx context.Context, userID uint) ([]models.MedicationStatus, error) {
	return route(ctx, f, "today medications", false, func(s Store) ([]models.MedicationStatus, error) {
		return s.GetTodayMedications(ctx, userID)
	})
}

func (f *Facade) TakeMedication(ctx context.Context, medicationID uint, doseIndex int) (*models.MedicationStatus, error) {
	if doseIndex < 0 {
		return nil, invalid("dose_index", "must not be negative, got %d", doseIndex)
	}
	return route(ctx, f, "take medication", true, func(s Store) (*models.MedicationStatus, error) {
		return s.TakeMedication(ctx, medicationID, doseIndex)
	})
}

func (f *Facade) GetReminderSettings(ctx context.Context, userID uint) (*models.ReminderSetting, error) {
	return route(ctx, f, "get reminder settings", false, func(s Store) (*models.ReminderSetting, error) {
		return s.GetReminderSettings(ctx, userID)
	})
}

func (f *Facade) UpdateReminderSettings(ctx context.Context, userID uint, patch *models.ReminderPatch) (*models.ReminderSetting, error) {
	return route(ctx, f, "update reminder settings", true, func(s Store) (*models.ReminderSetting, error) {
		return s.UpdateReminderSettings(ctx, userID, patch)
	})
}
