package audithttp

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the audit view and its CSV export. Callers mount it
// behind the session gate.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/audit", h.handleList)
	r.Get("/audit/export.csv", h.handleExport)
}
