package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/paintrack/backend/config"
	"github.com/paintrack/backend/internal/database"
	"github.com/paintrack/backend/internal/router"
	"github.com/paintrack/backend/internal/service"
	"github.com/paintrack/backend/internal/session"
	"github.com/paintrack/backend/internal/storage"
)

const sessionJanitorInterval = 10 * time.Minute

// Server represents the HTTP server and the resources behind it
type Server struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *storage.Facade
	sessions *session.Manager
	redis    *redis.Client
	router   *gin.Engine
	http     *http.Server

	janitorCtx  context.Context
	stopJanitor context.CancelFunc
}

// New wires the storage facade, services and routes. Redis and the report
// archive are optional: when they cannot be set up the server runs without
// rate limiting or archiving.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	opts := storage.Options{
		Fallback: storage.NewMemoryStore().WithClock(nil, loc),
		Backoff: storage.Backoff{
			BaseDelay:   cfg.ReconnectBaseDelay,
			MaxDelay:    cfg.ReconnectMaxDelay,
			MaxAttempts: cfg.ReconnectMaxAttempts,
			Jitter:      storage.DefaultBackoff().Jitter,
		},
		ProbeTimeout: cfg.DBConnectTimeout,
		Logger:       log,
	}
	if cfg.DatabaseURL != "" {
		opts.Dialer = storage.PostgresDialer(database.Options{
			DSN:             cfg.DatabaseURL,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxOpenConns / 2,
			ConnMaxIdleTime: cfg.DBIdleTimeout,
			ConnectTimeout:  cfg.DBConnectTimeout,
		}, loc, log)
	}

	store := storage.NewFacade(opts)
	if err := store.Init(ctx); err != nil {
		return nil, err
	}

	sessions := session.NewManager(session.NewDual(store.DB, store.ReportFailure, log), cfg.SessionTTL, log)

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Warn("failed to connect to Redis, rate limiting disabled", zap.Error(err))
			redisClient = nil
		}
	}

	var archiver service.Archiver
	if cfg.ReportBucket != "" {
		s3cfg, err := config.NewS3Config(ctx, cfg.ReportBucket, cfg.AWSRegion, cfg.S3Endpoint)
		if err != nil {
			log.Warn("failed to configure report archive, archiving disabled", zap.Error(err))
		} else {
			archiver = s3cfg
		}
	}

	insights := service.NewInsightsService(store, loc)
	r := router.SetupRouter(router.Dependencies{
		Store:         store,
		Auth:          service.NewAuthService(store, sessions, log),
		Insights:      insights,
		Reports:       service.NewReportService(store, insights, cfg.ShareSecret, cfg.ShareTTL, archiver, log),
		Redis:         redisClient,
		Logger:        log,
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.Env == config.Production,
	})

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	return &Server{
		cfg:      cfg,
		log:      log.Named("server"),
		store:    store,
		sessions: sessions,
		redis:    redisClient,
		router:   r,
		http: &http.Server{
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		janitorCtx:  janitorCtx,
		stopJanitor: stopJanitor,
	}, nil
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on the configured address until Shutdown is called
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown is called
func (s *Server) Serve(ln net.Listener) error {
	go s.sessions.RunJanitor(s.janitorCtx, sessionJanitorInterval)

	s.log.Info("server listening", zap.String("addr", ln.Addr().String()), zap.String("storage", s.store.Mode().String()))
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and then
// releases the storage facade and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	s.stopJanitor()
	if err := s.store.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("storage shutdown: %w", err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	s.log.Info("server stopped")
	return errors.Join(errs...)
}
