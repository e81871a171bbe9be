package goals

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/platform/httpx"
	"github.com/shelfwise/shelfwise/internal/shared"
)

// Handler exposes goal endpoints behind the session gate.
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

// MountRoutes registers /goals routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(auth.RequireSession(auth.LoginPath))
	r.Get("/", h.list)
	r.Post("/edit", h.add)
}

type goalView struct {
	Goal
	Progress *float64 `json:"progress"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, _ := shared.PrincipalFromContext(r.Context())
	found, err := h.service.List(r.Context(), owner, r.URL.Query())
	if err != nil {
		if httpx.StatusFor(err) >= http.StatusInternalServerError {
			h.logger.Error("list goals", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	views := make([]goalView, 0, len(found))
	for _, g := range found {
		views = append(views, goalView{Goal: g, Progress: g.Progress()})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"goals": views})
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	owner, _ := shared.PrincipalFromContext(r.Context())
	g, err := h.service.Add(r.Context(), owner, Submission{
		Title:        r.PostFormValue("title"),
		Description:  r.PostFormValue("description"),
		Metric:       r.PostFormValue("metric"),
		TargetValue:  r.PostFormValue("target_value"),
		CurrentValue: r.PostFormValue("current_value"),
		Deadline:     r.PostFormValue("deadline"),
		Completed:    r.PostFormValue("is_completed"),
	})
	if err != nil {
		if httpx.StatusFor(err) >= http.StatusInternalServerError {
			h.logger.Error("add goal", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("goal added", slog.Int64("goal_id", g.ID), slog.Int64("user_id", owner.UserID))
	httpx.JSON(w, http.StatusCreated, map[string]any{"goal": goalView{Goal: g, Progress: g.Progress()}})
}
