package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/storage"
)

// MockStore is a mock implementation of storage.Store
type MockStore struct {
	mock.Mock
}

var _ storage.Store = (*MockStore)(nil)

func (m *MockStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) UpdateUser(ctx context.Context, id uint, patch *models.UserPatch) (*models.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) CreatePainEntry(ctx context.Context, entry *models.PainEntry) (*models.PainEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PainEntry), args.Error(1)
}

func (m *MockStore) GetPainEntriesByUser(ctx context.Context, userID uint) ([]models.PainEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PainEntry), args.Error(1)
}

func (m *MockStore) GetRecentPainEntries(ctx context.Context, userID uint, limit int) ([]models.PainEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PainEntry), args.Error(1)
}

func (m *MockStore) GetPainTrend(ctx context.Context, userID uint, days int) ([]models.PainEntry, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PainEntry), args.Error(1)
}

func (m *MockStore) GetTriggerStats(ctx context.Context, userID uint) ([]models.TriggerStat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TriggerStat), args.Error(1)
}

func (m *MockStore) GetPatterns(ctx context.Context, userID uint) ([]models.Pattern, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Pattern), args.Error(1)
}

func (m *MockStore) CreateMedication(ctx context.Context, med *models.Medication) (*models.Medication, error) {
	args := m.Called(ctx, med)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Medication), args.Error(1)
}

func (m *MockStore) GetMedicationsByUser(ctx context.Context, userID uint) ([]models.Medication, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Medication), args.Error(1)
}

func (m *MockStore) GetTodayMedications(ctx context.Context, userID uint) ([]models.MedicationStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MedicationStatus), args.Error(1)
}

func (m *MockStore) TakeMedication(ctx context.Context, medicationID uint, doseIndex int) (*models.MedicationStatus, error) {
	args := m.Called(ctx, medicationID, doseIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MedicationStatus), args.Error(1)
}

func (m *MockStore) GetReminderSettings(ctx context.Context, userID uint) (*models.ReminderSetting, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReminderSetting), args.Error(1)
}

func (m *MockStore) UpdateReminderSettings(ctx context.Context, userID uint, patch *models.ReminderPatch) (*models.ReminderSetting, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReminderSetting), args.Error(1)
}

// MockPrimary is a mock primary store: a MockStore plus the connection
// methods probed by the storage facade.
type MockPrimary struct {
	MockStore
}

var _ storage.Primary = (*MockPrimary)(nil)

func (m *MockPrimary) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPrimary) Close() error {
	args := m.Called()
	return args.Error(0)
}
