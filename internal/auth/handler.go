package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfwise/shelfwise/internal/platform/httpx"
	"github.com/shelfwise/shelfwise/internal/shared"
)

// Authenticator is the service contract used by Handler.
type Authenticator interface {
	Register(ctx context.Context, reg Registration) (User, error)
	Login(ctx context.Context, attempt Attempt) (Result, error)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        Authenticator
	sessionManager *shared.SessionManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service Authenticator, sessions *shared.SessionManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
	}
}

// MountRoutes registers the public auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/loggedin", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/register", h.showRegister)
	r.Get("/registered", h.redirectRegister)
	r.Post("/registered", h.handleRegister)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"action": "/users/loggedin",
		"fields": []string{"username", "password"},
	})
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"action": "/users/registered",
		"fields": []string{"username", "first", "last", "email", "password"},
	})
}

func (h *Handler) redirectRegister(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/users/register", http.StatusSeeOther)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	user, err := h.service.Register(r.Context(), Registration{
		Username: r.PostFormValue("username"),
		First:    r.PostFormValue("first"),
		Last:     r.PostFormValue("last"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) && !errors.Is(err, shared.ErrDuplicateIdentity) {
			h.logger.Error("register user", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("user registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	msg := fmt.Sprintf("Hello %s %s, you are now registered! We will send an email to you at %s.\nYour username is: %s\nYour hashed password is: %s\n",
		user.First, user.Last, user.Email, user.Username, user.PasswordHash)
	httpx.Text(w, http.StatusOK, msg)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	result, err := h.service.Login(r.Context(), Attempt{
		Username:  r.PostFormValue("username"),
		Password:  r.PostFormValue("password"),
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.logger.Error("login", slog.Any("error", err))
		httpx.Text(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	if !result.Authenticated {
		h.logger.Info("login rejected",
			slog.String("username", result.Audit.Username),
			slog.String("reason", string(result.Reason)),
			slog.Int64("audit_id", result.Audit.ID))
		httpx.Text(w, statusForReason(result.Reason), result.Message)
		return
	}

	if _, err := h.sessionManager.Start(r.Context(), w, result.Principal); err != nil {
		h.logger.Error("start session", slog.Any("error", err))
		httpx.Text(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	httpx.Text(w, http.StatusOK, result.Message)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if err := h.sessionManager.Destroy(r.Context(), w, sess); err != nil {
		h.logger.Warn("destroy session", slog.Any("error", err))
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func statusForReason(reason Reason) int {
	if reason == ReasonMissingFields {
		return http.StatusBadRequest
	}
	return http.StatusUnauthorized
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
