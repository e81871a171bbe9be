package weather

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfwise/shelfwise/internal/platform/httpx"
	"github.com/shelfwise/shelfwise/internal/validate"
)

const (
	noticeNotFound    = "No weather data found for that city."
	noticeUnavailable = "Unable to read weather data right now."
)

// Reporter returns current conditions for a city.
type Reporter interface {
	Current(ctx context.Context, city string) (Report, error)
}

// Lookup is the response body. Weather is nil when no city was asked for or
// the lookup failed; Error then carries the notice.
type Lookup struct {
	Query   string  `json:"query"`
	Weather *Report `json:"weather"`
	Error   *string `json:"error"`
}

// Handler serves the weather passthrough.
type Handler struct {
	logger   *slog.Logger
	reporter Reporter
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, reporter Reporter) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, reporter: reporter}
}

// MountRoutes registers GET / on the weather router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.current)
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	city := validate.Normalize(r.URL.Query().Get("city"))
	out := Lookup{Query: city}
	if city == "" {
		httpx.JSON(w, http.StatusOK, out)
		return
	}

	report, err := h.reporter.Current(r.Context(), city)
	if err != nil {
		notice := noticeUnavailable
		if errors.Is(err, ErrCityNotFound) {
			notice = noticeNotFound
		} else {
			h.logger.Warn("weather lookup failed", slog.String("city", city), slog.Any("error", err))
		}
		out.Error = &notice
		httpx.JSON(w, http.StatusOK, out)
		return
	}
	out.Weather = &report
	httpx.JSON(w, http.StatusOK, out)
}
