package auth

import (
	"net/http"
	"time"

	"github.com/shelfwise/shelfwise/internal/shared"
)

// LoginPath is the entry point anonymous requests are sent to.
const LoginPath = "/users/login"

// RequireSession gates protected routes: requests without a live session are
// redirected to loginPath and the wrapped handler never runs.
func RequireSession(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.Principal.UserID == 0 || sess.Expired(time.Now()) {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
