package books

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/platform/httpx"
	"github.com/shelfwise/shelfwise/internal/shared"
)

// Handler exposes the catalogue over HTTP.
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

// MountRoutes registers /books routes. Adding a book requires a session.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/search-result", h.search)
	r.Get("/list", h.list)
	r.Get("/bargainbooks", h.bargains)
	r.With(auth.RequireSession(auth.LoginPath)).Post("/bookadded", h.add)
}

// MountAPI registers the JSON catalogue under /api.
func (h *Handler) MountAPI(r chi.Router) {
	r.Get("/books", h.catalogue)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.Context(), r.URL.Query())
	if err != nil {
		h.fail(w, "search books", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list books", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"books": found})
}

func (h *Handler) bargains(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Bargains(r.Context())
	if err != nil {
		h.fail(w, "list bargains", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"books": found})
}

func (h *Handler) catalogue(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Catalogue(r.Context(), r.URL.Query())
	if err != nil {
		h.fail(w, "api books", err)
		return
	}
	httpx.JSON(w, http.StatusOK, found)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	book, err := h.service.Add(r.Context(), r.PostFormValue("name"), r.PostFormValue("price"))
	if err != nil {
		h.fail(w, "add book", err)
		return
	}
	if p, ok := shared.PrincipalFromContext(r.Context()); ok {
		h.logger.Info("book added", slog.Int64("book_id", book.ID), slog.String("by", p.Username))
	}
	httpx.Text(w, http.StatusOK, AddedMessage(book))
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
