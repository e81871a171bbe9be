package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfwise/shelfwise/internal/platform/httpx"
)

// Handler serves the user directory.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers user routes. Callers mount it behind the session gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/list", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Directory(r.Context(), r.URL.Query())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": found})
}
