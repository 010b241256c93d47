package storage

import (
	"context"

	"github.com/paintrack/backend/internal/models"
)

// Store is the operation set shared by the primary and fallback stores and
// exposed by the Facade.
type Store interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, patch *models.UserPatch) (*models.User, error)

	CreatePainEntry(ctx context.Context, entry *models.PainEntry) (*models.PainEntry, error)
	GetPainEntriesByUser(ctx context.Context, userID uint) ([]models.PainEntry, error)
	GetRecentPainEntries(ctx context.Context, userID uint, limit int) ([]models.PainEntry, error)
	GetPainTrend(ctx context.Context, userID uint, days int) ([]models.PainEntry, error)
	GetTriggerStats(ctx context.Context, userID uint) ([]models.TriggerStat, error)
	GetPatterns(ctx context.Context, userID uint) ([]models.Pattern, error)

	CreateMedication(ctx context.Context, med *models.Medication) (*models.Medication, error)
	GetMedicationsByUser(ctx context.Context, userID uint) ([]models.Medication, error)
	GetTodayMedications(ctx context.Context, userID uint) ([]models.MedicationStatus, error)
	TakeMedication(ctx context.Context, medicationID uint, doseIndex int) (*models.MedicationStatus, error)

	GetReminderSettings(ctx context.Context, userID uint) (*models.ReminderSetting, error)
	UpdateReminderSettings(ctx context.Context, userID uint, patch *models.ReminderPatch) (*models.ReminderSetting, error)
}

// Primary is a durable Store with a connection that can be probed and closed.
type Primary interface {
	Store
	Ping(ctx context.Context) error
	Close() error
}

// Dialer opens a connection to the primary store. The Facade calls it at Init
// and again on every reconnection attempt while no primary is held.
type Dialer func(ctx context.Context) (Primary, error)
