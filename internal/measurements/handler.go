package measurements

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/platform/httpx"
	"github.com/shelfwise/shelfwise/internal/shared"
)

// Handler exposes body measurement endpoints behind the session gate.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the measurement routes under /metrics. The gate is
// applied per route because the Prometheus endpoint shares the prefix.
func (h *Handler) MountRoutes(r chi.Router) {
	gate := r.With(auth.RequireSession(auth.LoginPath))
	gate.Get("/bodymeasurements", h.list)
	gate.Post("/add", h.add)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, _ := shared.PrincipalFromContext(r.Context())
	found, err := h.service.List(r.Context(), owner)
	if err != nil {
		h.logger.Error("list measurements", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"measurements": found})
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	owner, _ := shared.PrincipalFromContext(r.Context())
	rec, err := h.service.Add(r.Context(), owner, Submission{
		RecordedAt:  r.PostFormValue("recorded_at"),
		HeightCm:    r.PostFormValue("height_cm"),
		WeightKg:    r.PostFormValue("weight_kg"),
		RestingHR:   r.PostFormValue("resting_hr"),
		SystolicBP:  r.PostFormValue("systolic_bp"),
		DiastolicBP: r.PostFormValue("diastolic_bp"),
		Notes:       r.PostFormValue("notes"),
	})
	if err != nil {
		if httpx.StatusFor(err) >= http.StatusInternalServerError {
			h.logger.Error("add measurement", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"measurement": rec})
}
