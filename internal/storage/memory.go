package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/paintrack/backend/internal/models"
)

type doseKey struct {
	medicationID uint
	date         string
	doseIndex    int
}

// MemoryStore is the volatile fallback store. Each entity lives in a map keyed
// by a sequential id. Nothing survives a process restart and no referential
// checks are made against the users map.
type MemoryStore struct {
	mu sync.RWMutex

	now func() time.Time
	loc *time.Location

	users       map[uint]models.User
	usernames   map[string]uint
	entries     map[uint]models.PainEntry
	medications map[uint]models.Medication
	reminders   map[uint]models.ReminderSetting // keyed by user id
	taken       map[doseKey]time.Time

	nextUserID       uint
	nextEntryID      uint
	nextMedicationID uint
	nextReminderID   uint
}

var _ Store = (*MemoryStore)(nil)

// FallbackUserIDBase is the first user id handed out by MemoryStore. The range
// sits far above any id the users table will reach, so an identity issued
// while degraded never names a database user and the reverse.
const FallbackUserIDBase uint = 1 << 31

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:         time.Now,
		loc:         time.Local,
		users:       map[uint]models.User{},
		usernames:   map[string]uint{},
		entries:     map[uint]models.PainEntry{},
		medications: map[uint]models.Medication{},
		reminders:   map[uint]models.ReminderSetting{},
		taken:       map[doseKey]time.Time{},
		nextUserID:  FallbackUserIDBase - 1,
	}
}

// WithClock overrides the time source and the location used for day
// boundaries and hour-of-day bucketing.
func (s *MemoryStore) WithClock(now func() time.Time, loc *time.Location) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.now = now
	}
	if loc != nil {
		s.loc = loc
	}
	return s
}

func (s *MemoryStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u = u.Clone()
	return &u, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernames[strings.ToLower(username)]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.users[id].Clone()
	return &u, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usernames[strings.ToLower(user.Username)]; exists {
		return nil, invalid("username", "%q is already taken", user.Username)
	}
	s.nextUserID++
	now := s.now()
	u := user.Clone()
	u.ID = s.nextUserID
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = u
	s.usernames[strings.ToLower(u.Username)] = u.ID
	out := u.Clone()
	return &out, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id uint, patch *models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&u)
	u.UpdatedAt = s.now()
	s.users[id] = u
	out := u.Clone()
	return &out, nil
}

func (s *MemoryStore) CreatePainEntry(_ context.Context, entry *models.PainEntry) (*models.PainEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEntryID++
	e := entry.Clone()
	e.ID = s.nextEntryID
	e.CreatedAt = s.now()
	if e.RecordedAt.IsZero() {
		e.RecordedAt = e.CreatedAt
	}
	s.entries[e.ID] = e
	out := e.Clone()
	return &out, nil
}

// entriesFor returns the user's entries most-recent-first. Callers hold mu.
func (s *MemoryStore) entriesFor(userID uint) []models.PainEntry {
	out := []models.PainEntry{}
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *MemoryStore) GetPainEntriesByUser(_ context.Context, userID uint) ([]models.PainEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entriesFor(userID), nil
}

func (s *MemoryStore) GetRecentPainEntries(_ context.Context, userID uint, limit int) ([]models.PainEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.entriesFor(userID)
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemoryStore) GetPainTrend(_ context.Context, userID uint, days int) ([]models.PainEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	since := s.now().AddDate(0, 0, -days)
	all := s.entriesFor(userID)
	out := make([]models.PainEntry, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if !all[i].RecordedAt.Before(since) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) GetTriggerStats(_ context.Context, userID uint) ([]models.TriggerStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.entriesFor(userID)
	sets := make([][]string, 0, len(all))
	for _, e := range all {
		sets = append(sets, e.Triggers)
	}
	return TriggerStats(sets), nil
}

func (s *MemoryStore) GetPatterns(_ context.Context, userID uint) ([]models.Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.entriesFor(userID)
	in := make([]PatternInput, 0, len(all))
	for _, e := range all {
		in = append(in, PatternInput{RecordedAt: e.RecordedAt, Triggers: e.Triggers})
	}
	return DetectPatterns(in, s.loc), nil
}

func (s *MemoryStore) CreateMedication(_ context.Context, med *models.Medication) (*models.Medication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMedicationID++
	now := s.now()
	m := med.Clone()
	m.ID = s.nextMedicationID
	m.CreatedAt = now
	m.UpdatedAt = now
	s.medications[m.ID] = m
	out := m.Clone()
	return &out, nil
}

func (s *MemoryStore) medicationsFor(userID uint, activeOnly bool) []models.Medication {
	out := []models.Medication{}
	for _, m := range s.medications {
		if m.UserID != userID || (activeOnly && !m.Active) {
			continue
		}
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) GetMedicationsByUser(_ context.Context, userID uint) ([]models.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.medicationsFor(userID, false), nil
}

func (s *MemoryStore) status(m models.Medication, date string) models.MedicationStatus {
	return models.NewMedicationStatus(m, func(i int) bool {
		_, ok := s.taken[doseKey{medicationID: m.ID, date: date, doseIndex: i}]
		return ok
	})
}

func (s *MemoryStore) GetTodayMedications(_ context.Context, userID uint) ([]models.MedicationStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	today := isoDate(s.now(), s.loc)
	meds := s.medicationsFor(userID, true)
	out := make([]models.MedicationStatus, 0, len(meds))
	for _, m := range meds {
		out = append(out, s.status(m, today))
	}
	return out, nil
}

func (s *MemoryStore) TakeMedication(_ context.Context, medicationID uint, doseIndex int) (*models.MedicationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.medications[medicationID]
	if !ok {
		return nil, ErrNotFound
	}
	if err := validateDoseIndex(&m, doseIndex); err != nil {
		return nil, err
	}
	now := s.now()
	today := isoDate(now, s.loc)
	key := doseKey{medicationID: medicationID, date: today, doseIndex: doseIndex}
	if _, done := s.taken[key]; !done {
		s.taken[key] = now
	}
	st := s.status(m, today)
	return &st, nil
}

func (s *MemoryStore) GetReminderSettings(_ context.Context, userID uint) (*models.ReminderSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs := s.reminderFor(userID)
	return &rs, nil
}

// reminderFor returns the user's settings, creating the default record on
// first access. Callers hold mu for writing.
func (s *MemoryStore) reminderFor(userID uint) models.ReminderSetting {
	if rs, ok := s.reminders[userID]; ok {
		return rs
	}
	s.nextReminderID++
	now := s.now()
	rs := models.DefaultReminderSetting(userID)
	rs.ID = s.nextReminderID
	rs.CreatedAt = now
	rs.UpdatedAt = now
	s.reminders[userID] = rs
	return rs
}

func (s *MemoryStore) UpdateReminderSettings(_ context.Context, userID uint, patch *models.ReminderPatch) (*models.ReminderSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs := s.reminderFor(userID)
	patch.Apply(&rs)
	rs.UpdatedAt = s.now()
	s.reminders[userID] = rs
	return &rs, nil
}
