package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shelfwise/shelfwise/internal/audit"
	audithttp "github.com/shelfwise/shelfwise/internal/audit/http"
	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/observability"
	"github.com/shelfwise/shelfwise/internal/platform/cache"
	"github.com/shelfwise/shelfwise/internal/platform/db"
	"github.com/shelfwise/shelfwise/internal/shared"
	"github.com/shelfwise/shelfwise/internal/users"
)

// SessionCookieName names the opaque session cookie.
const SessionCookieName = "shelfwise_session"

const sweepInterval = time.Minute

// Core is the infrastructure both binaries share: the store, sessions,
// metrics and the /users surface.
type Core struct {
	Logger   *slog.Logger
	Config   *Config
	Pool     *pgxpool.Pool
	Sessions *shared.SessionManager
	Metrics  *observability.Metrics

	authHandler  *auth.Handler
	usersHandler *users.Handler
	auditHandler *audithttp.Handler

	redis  *redis.Client
	memory *shared.MemoryStore
}

// NewCore connects to PostgreSQL (migrating when configured), selects the
// session backend and builds the shared handlers.
func NewCore(ctx context.Context, cfg *Config, logger *slog.Logger, service string) (*Core, error) {
	pool, err := db.New(ctx, cfg.PGDSN, cfg.DBPoolSize)
	if err != nil {
		return nil, err
	}
	if cfg.DBMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("migrations applied")
	}

	c := &Core{Logger: logger, Config: cfg, Pool: pool, Metrics: observability.NewMetrics(service)}

	var store shared.SessionStore
	switch cfg.SessionBackend {
	case SessionBackendRedis:
		client, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			pool.Close()
			return nil, err
		}
		c.redis = client
		store = shared.NewRedisStore(client, cfg.SessionTTL)
	default:
		c.memory = shared.NewMemoryStore(cfg.SessionTTL)
		store = c.memory
	}
	c.Sessions = shared.NewSessionManager(store, SessionCookieName, cfg.SessionTTL, cfg.IsProduction())

	auditLogger := audit.NewLogger(audit.NewRepository(pool))
	authService := auth.NewService(auth.NewRepository(pool), auditLogger, auth.WithObserver(c.Metrics))
	c.authHandler = auth.NewHandler(logger, authService, c.Sessions)
	c.usersHandler = users.NewHandler(logger, users.NewService(users.NewRepository(pool)))
	c.auditHandler = audithttp.NewHandler(logger, auditLogger)

	logger.Info("core ready",
		slog.String("service", service),
		slog.String("session_backend", cfg.SessionBackend),
		slog.Int("db_pool_size", cfg.DBPoolSize))
	return c, nil
}

// Router builds the HTTP handler, filling the shared fields of params.
func (c *Core) Router(params RouterParams) http.Handler {
	params.Logger = c.Logger
	params.Config = c.Config
	params.SessionManager = c.Sessions
	params.Metrics = c.Metrics
	params.Health = c.Pool.Ping
	params.AuthHandler = c.authHandler
	params.UsersHandler = c.usersHandler
	params.AuditHandler = c.auditHandler
	return NewRouter(params)
}

// Background returns the maintenance loops to run alongside the server.
func (c *Core) Background() []func(context.Context) error {
	if c.memory == nil {
		return nil
	}
	return []func(context.Context) error{func(ctx context.Context) error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := c.memory.Sweep(); n > 0 {
					c.Logger.Debug("expired sessions swept", slog.Int("count", n))
				}
			}
		}
	}}
}

// Close releases the store connections.
func (c *Core) Close() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.Logger.Warn("redis close", slog.Any("error", err))
		}
	}
	c.Pool.Close()
}
