package activity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/platform/httpx"
	"github.com/shelfwise/shelfwise/internal/shared"
)

// Handler exposes activity endpoints. Every route requires a session.
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

// MountRoutes registers /activity routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(auth.RequireSession(auth.LoginPath))
	r.Get("/results", h.results)
	r.Post("/added", h.added)
	r.Get("/summary", h.summary)
}

func (h *Handler) results(w http.ResponseWriter, r *http.Request) {
	owner, _ := shared.PrincipalFromContext(r.Context())
	found, err := h.service.Search(r.Context(), owner, r.URL.Query())
	if err != nil {
		h.fail(w, "search activity", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"activities": found})
}

func (h *Handler) added(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	owner, _ := shared.PrincipalFromContext(r.Context())
	a, err := h.service.Add(r.Context(), owner, Submission{
		Date:      r.PostFormValue("activity_date"),
		Type:      r.PostFormValue("activity_type"),
		Intensity: r.PostFormValue("intensity"),
		Duration:  r.PostFormValue("duration_minutes"),
		Notes:     r.PostFormValue("notes"),
	})
	if err != nil {
		h.fail(w, "add activity", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"activity": a})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	owner, _ := shared.PrincipalFromContext(r.Context())
	s, err := h.service.Summary(r.Context(), owner)
	if err != nil {
		h.fail(w, "summarize activity", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"summary": s})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
