package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paintrack/backend/internal/storage"
	"github.com/paintrack/backend/internal/types"
)

const (
	DefaultReportDays = 30
	shareIssuer       = "paintrack"
	archiveURLTTL     = 24 * time.Hour

	shareStoragePrimary  = "primary"
	shareStorageFallback = "fallback"
)

// durabilityReporter is implemented by *storage.Facade.
type durabilityReporter interface {
	Durable() bool
}

// Archiver stores rendered reports and hands out temporary download links.
// *config.S3Config implements it.
type Archiver interface {
	Upload(ctx context.Context, objectKey string, body []byte, contentType string) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

type ReportService struct {
	store    storage.Store
	insights *InsightsService
	secret   []byte
	shareTTL time.Duration
	archiver Archiver
	now      func() time.Time
	log      *zap.Logger
}

// NewReportService builds the report service. archiver may be nil, which
// disables Archive.
func NewReportService(store storage.Store, insights *InsightsService, shareSecret string, shareTTL time.Duration, archiver Archiver, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{
		store:    store,
		insights: insights,
		secret:   []byte(shareSecret),
		shareTTL: shareTTL,
		archiver: archiver,
		now:      time.Now,
		log:      log.Named("report"),
	}
}

// WithClock overrides the time source.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// storageName reports which store currently serves user ids. Stores that do
// not report durability are always the primary.
func (s *ReportService) storageName() string {
	if d, ok := s.store.(durabilityReporter); ok && !d.Durable() {
		return shareStorageFallback
	}
	return shareStoragePrimary
}

// Build assembles the report for the last days days.
func (s *ReportService) Build(ctx context.Context, userID uint, days int) (*types.Report, error) {
	if days <= 0 {
		days = DefaultReportDays
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	trend, err := s.store.GetPainTrend(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	triggers, err := s.store.GetTriggerStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	patterns, err := s.store.GetPatterns(ctx, userID)
	if err != nil {
		return nil, err
	}
	meds, err := s.store.GetMedicationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &types.Report{
		GeneratedAt: s.now(),
		Days:        days,
		User: types.ReportUser{
			Username:           user.Username,
			FullName:           user.FullName,
			DateOfBirth:        user.DateOfBirth,
			MedicalHistory:     user.MedicalHistory,
			Allergies:          user.Allergies,
			CurrentMedications: user.CurrentMedications,
		},
		Summary:     Summarize(trend, days, s.insights.loc),
		Trend:       trend,
		Triggers:    triggers,
		Patterns:    patterns,
		Medications: meds,
	}, nil
}

// ShareToken signs a token that lets anyone holding it view the user's report
// until it expires.
func (s *ReportService) ShareToken(ctx context.Context, userID uint, days int) (*types.ShareLink, error) {
	if days <= 0 {
		days = DefaultReportDays
	}
	servedBy := s.storageName()
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.shareTTL)
	claims := &types.ShareClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    shareIssuer,
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:  userID,
		Days:    days,
		Storage: servedBy,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign share token: %w", err)
	}
	return &types.ShareLink{
		Token:     token,
		Path:      "/api/v1/shared/" + token,
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveShare verifies a share token and builds the report it grants. A token
// issued while a different store was serving is rejected, since its user id
// means nothing to the current one.
func (s *ReportService) ResolveShare(ctx context.Context, token string) (*types.Report, error) {
	claims := &types.ShareClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithIssuer(shareIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShareToken, err)
	}
	if claims.Storage != s.storageName() {
		return nil, fmt.Errorf("%w: issued by the %s store", ErrInvalidShareToken, claims.Storage)
	}
	report, err := s.Build(ctx, claims.UserID, claims.Days)
	if err != nil {
		return nil, err
	}
	// the store may have switched while the report was being built
	if claims.Storage != s.storageName() {
		return nil, fmt.Errorf("%w: issued by the %s store", ErrInvalidShareToken, claims.Storage)
	}
	return report, nil
}

// Archive renders the report as JSON, uploads it and returns a temporary
// download link.
func (s *ReportService) Archive(ctx context.Context, userID uint, days int) (*types.ArchivedReport, error) {
	if s.archiver == nil {
		return nil, ErrArchiveDisabled
	}

	report, err := s.Build(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	key := fmt.Sprintf("reports/%d/%s-%s.json", userID, report.GeneratedAt.UTC().Format("20060102T150405Z"), uuid.NewString())
	if err := s.archiver.Upload(ctx, key, body, "application/json"); err != nil {
		return nil, err
	}
	url, err := s.archiver.GeneratePresignedURL(ctx, key, archiveURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign report URL: %w", err)
	}

	s.log.Info("report archived", zap.Uint("user_id", userID), zap.String("key", key))
	return &types.ArchivedReport{Key: key, URL: url, ExpiresAt: s.now().Add(archiveURLTTL)}, nil
}
