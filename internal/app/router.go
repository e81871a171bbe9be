package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shelfwise/shelfwise/internal/activity"
	audithttp "github.com/shelfwise/shelfwise/internal/audit/http"
	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/books"
	"github.com/shelfwise/shelfwise/internal/goals"
	"github.com/shelfwise/shelfwise/internal/measurements"
	"github.com/shelfwise/shelfwise/internal/observability"
	"github.com/shelfwise/shelfwise/internal/platform/httpx"
	"github.com/shelfwise/shelfwise/internal/shared"
	"github.com/shelfwise/shelfwise/internal/users"
	"github.com/shelfwise/shelfwise/internal/weather"
)

// RouterParams groups dependencies for building the HTTP router. Domain
// handlers left nil are not mounted, so each binary passes only its own.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Metrics        *observability.Metrics
	// Health reports store reachability for /healthz; nil means always healthy.
	Health func(ctx context.Context) error

	AuthHandler  *auth.Handler
	UsersHandler *users.Handler
	AuditHandler *audithttp.Handler

	BooksHandler *books.Handler

	ActivityHandler     *activity.Handler
	GoalsHandler        *goals.Handler
	MeasurementsHandler *measurements.Handler
	WeatherHandler      *weather.Handler
}

// NewRouter constructs the chi.Router with shared defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if params.Health != nil {
			if err := params.Health(r.Context()); err != nil {
				params.Logger.Warn("health check failed", slog.Any("error", err))
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(auth.LoginPath))
			if params.UsersHandler != nil {
				params.UsersHandler.MountRoutes(r)
			}
			params.AuditHandler.MountRoutes(r)
		})
	})

	if params.BooksHandler != nil {
		r.Route("/books", params.BooksHandler.MountRoutes)
		r.Route("/api", params.BooksHandler.MountAPI)
	}
	if params.ActivityHandler != nil {
		r.Route("/activity", params.ActivityHandler.MountRoutes)
	}
	if params.GoalsHandler != nil {
		r.Route("/goals", params.GoalsHandler.MountRoutes)
	}
	if params.WeatherHandler != nil {
		r.Route("/weather", params.WeatherHandler.MountRoutes)
	}

	// The Prometheus endpoint and the body measurement pages share /metrics.
	r.Route("/metrics", func(r chi.Router) {
		r.Method(http.MethodGet, "/", params.Metrics.Handler())
		if params.MeasurementsHandler != nil {
			params.MeasurementsHandler.MountRoutes(r)
		}
	})

	return r
}
