package service

import (
	"context"

	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, *models.Session, error)
	Login(ctx context.Context, username, password string) (*models.User, *models.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// IInsightsService defines the interface for derived insights
type IInsightsService interface {
	Triggers(ctx context.Context, userID uint) ([]models.TriggerStat, error)
	Patterns(ctx context.Context, userID uint) ([]models.Pattern, error)
	Summary(ctx context.Context, userID uint, days int) (*types.PainSummary, error)
	Recommendations(ctx context.Context, userID uint) ([]models.Recommendation, error)
	Resources() []models.Resource
}

// IReportService defines the interface for reports and sharing
type IReportService interface {
	Build(ctx context.Context, userID uint, days int) (*types.Report, error)
	ShareToken(ctx context.Context, userID uint, days int) (*types.ShareLink, error)
	ResolveShare(ctx context.Context, token string) (*types.Report, error)
	Archive(ctx context.Context, userID uint, days int) (*types.ArchivedReport, error)
}

var (
	_ IAuthService     = (*AuthService)(nil)
	_ IInsightsService = (*InsightsService)(nil)
	_ IReportService   = (*ReportService)(nil)
)
