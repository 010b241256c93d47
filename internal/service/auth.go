package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/session"
	"github.com/paintrack/backend/internal/storage"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
)

type AuthService struct {
	store    storage.Store
	sessions *session.Manager
	cost     int
	log      *zap.Logger
}

func NewAuthService(store storage.Store, sessions *session.Manager, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		store:    store,
		sessions: sessions,
		cost:     bcrypt.DefaultCost,
		log:      log.Named("auth"),
	}
}

// WithHashCost sets the bcrypt cost used for new passwords.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Register creates the account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, *models.Session, error) {
	username = strings.TrimSpace(username)
	if n := len(username); n < MinUsernameLength || n > MaxUsernameLength {
		return nil, nil, &storage.ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("must be between %d and %d characters", MinUsernameLength, MaxUsernameLength),
		}
	}
	if len(password) < MinPasswordLength {
		return nil, nil, &storage.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		}
	}

	// Check if user already exists
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, nil, ErrUserExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, models.NewUser(username, string(hashedPassword)))
	if err != nil {
		// lost a race with another registration of the same name
		if errors.Is(err, storage.ErrValidation) {
			return nil, nil, ErrUserExists
		}
		return nil, nil, err
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, sess, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *models.Session, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return user, sess, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Authenticate resolves a session token to its live session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	return s.sessions.Resolve(ctx, token)
}
