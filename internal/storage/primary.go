package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/paintrack/backend/internal/models"
)

// PrimaryStore executes every operation as a parameterized query through GORM.
// Any failure other than a missing row or a constraint violation is returned
// as *UnavailableError; the store never retries.
type PrimaryStore struct {
	db  *gorm.DB
	now func() time.Time
	loc *time.Location
}

var _ Primary = (*PrimaryStore)(nil)

// NewPrimaryStore wraps an open database handle. The schema is expected to be
// migrated already (see database.RunMigrations).
func NewPrimaryStore(db *gorm.DB) *PrimaryStore {
	return &PrimaryStore{db: db, now: time.Now, loc: time.Local}
}

// WithClock overrides the time source and the location used for day
// boundaries and hour-of-day bucketing.
func (s *PrimaryStore) WithClock(now func() time.Time, loc *time.Location) *PrimaryStore {
	if now != nil {
		s.now = now
	}
	if loc != nil {
		s.loc = loc
	}
	return s
}

// DB exposes the underlying handle for collaborators that share the pool,
// such as the session store.
func (s *PrimaryStore) DB() *gorm.DB {
	return s.db
}

// Ping is the lightweight health query used by the Facade probe.
func (s *PrimaryStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return &UnavailableError{Op: "ping", Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &UnavailableError{Op: "ping", Err: err}
	}
	return nil
}

func (s *PrimaryStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *PrimaryStore) fail(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return invalid(op, "record already exists")
	case IsDomainError(err):
		return err
	}
	return &UnavailableError{Op: op, Err: err}
}

func (s *PrimaryStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *PrimaryStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, s.fail("get user", err)
	}
	return &u, nil
}

func (s *PrimaryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("LOWER(username) = LOWER(?)", username).First(&u).Error; err != nil {
		return nil, s.fail("get user by username", err)
	}
	return &u, nil
}

func (s *PrimaryStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	u := user.Clone()
	u.ID = 0
	if err := s.conn(ctx).Create(&u).Error; err != nil {
		return nil, s.fail("create user", err)
	}
	return &u, nil
}

func (s *PrimaryStore) UpdateUser(ctx context.Context, id uint, patch *models.UserPatch) (*models.User, error) {
	var u models.User
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return err
		}
		patch.Apply(&u)
		return tx.Save(&u).Error
	})
	if err != nil {
		return nil, s.fail("update user", err)
	}
	return &u, nil
}

func (s *PrimaryStore) CreatePainEntry(ctx context.Context, entry *models.PainEntry) (*models.PainEntry, error) {
	e := entry.Clone()
	e.ID = 0
	if e.RecordedAt.IsZero() {
		e.RecordedAt = s.now()
	}
	if err := s.conn(ctx).Create(&e).Error; err != nil {
		return nil, s.fail("create pain entry", err)
	}
	return &e, nil
}

func (s *PrimaryStore) GetPainEntriesByUser(ctx context.Context, userID uint) ([]models.PainEntry, error) {
	entries := []models.PainEntry{}
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, s.fail("list pain entries", err)
	}
	return entries, nil
}

func (s *PrimaryStore) GetRecentPainEntries(ctx context.Context, userID uint, limit int) ([]models.PainEntry, error) {
	entries := []models.PainEntry{}
	if limit == 0 {
		return entries, nil
	}
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, s.fail("list recent pain entries", err)
	}
	return entries, nil
}

func (s *PrimaryStore) GetPainTrend(ctx context.Context, userID uint, days int) ([]models.PainEntry, error) {
	since := s.now().AddDate(0, 0, -days)
	entries := []models.PainEntry{}
	err := s.conn(ctx).
		Where("user_id = ? AND recorded_at >= ?", userID, since).
		Order("recorded_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, s.fail("pain trend", err)
	}
	return entries, nil
}

func (s *PrimaryStore) GetTriggerStats(ctx context.Context, userID uint) ([]models.TriggerStat, error) {
	var rows []models.PainEntry
	err := s.conn(ctx).
		Select("id", "triggers").
		Where("user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, s.fail("trigger stats", err)
	}
	sets := make([][]string, 0, len(rows))
	for _, r := range rows {
		sets = append(sets, r.Triggers)
	}
	return TriggerStats(sets), nil
}

func (s *PrimaryStore) GetPatterns(ctx context.Context, userID uint) ([]models.Pattern, error) {
	var rows []models.PainEntry
	err := s.conn(ctx).
		Select("id", "recorded_at", "triggers").
		Where("user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, s.fail("patterns", err)
	}
	in := make([]PatternInput, 0, len(rows))
	for _, r := range rows {
		in = append(in, PatternInput{RecordedAt: r.RecordedAt, Triggers: r.Triggers})
	}
	return DetectPatterns(in, s.loc), nil
}

func (s *PrimaryStore) CreateMedication(ctx context.Context, med *models.Medication) (*models.Medication, error) {
	m := med.Clone()
	m.ID = 0
	if err := s.conn(ctx).Create(&m).Error; err != nil {
		return nil, s.fail("create medication", err)
	}
	return &m, nil
}

func (s *PrimaryStore) GetMedicationsByUser(ctx context.Context, userID uint) ([]models.Medication, error) {
	meds := []models.Medication{}
	if err := s.conn(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&meds).Error; err != nil {
		return nil, s.fail("list medications", err)
	}
	return meds, nil
}

// takenSet loads today's dose rows for the given medications.
func (s *PrimaryStore) takenSet(ctx context.Context, date string, medicationIDs []uint) (map[doseKey]bool, error) {
	taken := map[doseKey]bool{}
	if len(medicationIDs) == 0 {
		return taken, nil
	}
	var doses []models.MedicationDose
	err := s.conn(ctx).
		Where("medication_id IN ? AND taken_on = ?", medicationIDs, date).
		Find(&doses).Error
	if err != nil {
		return nil, err
	}
	for _, d := range doses {
		taken[doseKey{medicationID: d.MedicationID, date: d.TakenOn, doseIndex: d.DoseIndex}] = true
	}
	return taken, nil
}

func (s *PrimaryStore) statusOf(m models.Medication, date string, taken map[doseKey]bool) models.MedicationStatus {
	return models.NewMedicationStatus(m, func(i int) bool {
		return taken[doseKey{medicationID: m.ID, date: date, doseIndex: i}]
	})
}

func (s *PrimaryStore) GetTodayMedications(ctx context.Context, userID uint) ([]models.MedicationStatus, error) {
	var meds []models.Medication
	err := s.conn(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("id ASC").
		Find(&meds).Error
	if err != nil {
		return nil, s.fail("today medications", err)
	}
	today := isoDate(s.now(), s.loc)
	ids := make([]uint, 0, len(meds))
	for _, m := range meds {
		ids = append(ids, m.ID)
	}
	taken, err := s.takenSet(ctx, today, ids)
	if err != nil {
		return nil, s.fail("today medications", err)
	}
	out := make([]models.MedicationStatus, 0, len(meds))
	for _, m := range meds {
		out = append(out, s.statusOf(m, today, taken))
	}
	return out, nil
}

func (s *PrimaryStore) TakeMedication(ctx context.Context, medicationID uint, doseIndex int) (*models.MedicationStatus, error) {
	var m models.Medication
	if err := s.conn(ctx).First(&m, "id = ?", medicationID).Error; err != nil {
		return nil, s.fail("take medication", err)
	}
	if err := validateDoseIndex(&m, doseIndex); err != nil {
		return nil, err
	}

	now := s.now()
	today := isoDate(now, s.loc)
	dose := models.MedicationDose{
		MedicationID: m.ID,
		TakenOn:      today,
		DoseIndex:    doseIndex,
		TakenAt:      now,
	}
	if err := s.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dose).Error; err != nil {
		return nil, s.fail("take medication", err)
	}

	taken, err := s.takenSet(ctx, today, []uint{m.ID})
	if err != nil {
		return nil, s.fail("take medication", err)
	}
	st := s.statusOf(m, today, taken)
	return &st, nil
}

func (s *PrimaryStore) GetReminderSettings(ctx context.Context, userID uint) (*models.ReminderSetting, error) {
	rs, err := s.reminderFor(ctx, userID)
	if err != nil {
		return nil, s.fail("get reminder settings", err)
	}
	return rs, nil
}

// reminderFor reads the user's settings row, inserting the defaults when it
// does not exist. A concurrent insert is absorbed by the unique user_id index.
func (s *PrimaryStore) reminderFor(ctx context.Context, userID uint) (*models.ReminderSetting, error) {
	var rs models.ReminderSetting
	err := s.conn(ctx).Where("user_id = ?", userID).First(&rs).Error
	if err == nil {
		return &rs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults := models.DefaultReminderSetting(userID)
	err = s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&defaults).Error
	if err != nil {
		return nil, err
	}
	if err := s.conn(ctx).Where("user_id = ?", userID).First(&rs).Error; err != nil {
		return nil, err
	}
	return &rs, nil
}

func (s *PrimaryStore) UpdateReminderSettings(ctx context.Context, userID uint, patch *models.ReminderPatch) (*models.ReminderSetting, error) {
	rs, err := s.reminderFor(ctx, userID)
	if err != nil {
		return nil, s.fail("update reminder settings", err)
	}
	patch.Apply(rs)
	if err := s.conn(ctx).Save(rs).Error; err != nil {
		return nil, s.fail("update reminder settings", err)
	}
	return rs, nil
}
