package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shelfwise/shelfwise/internal/shared"
)

func TestRequireSession(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name    string
		session *shared.Session
		allowed bool
	}{
		{"anonymous", nil, false},
		{"no user", &shared.Session{ExpiresAt: now.Add(time.Minute)}, false},
		{"expired", &shared.Session{Principal: shared.Principal{UserID: 7}, ExpiresAt: now.Add(-time.Second)}, false},
		{"live", &shared.Session{Principal: shared.Principal{UserID: 7, Username: "alice1"}, ExpiresAt: now.Add(time.Minute)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			h := RequireSession(LoginPath)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ran = true
				w.WriteHeader(http.StatusCreated)
			}))

			req := httptest.NewRequest(http.MethodPost, "/books/bookadded", nil)
			if tc.session != nil {
				req = req.WithContext(shared.ContextWithSession(req.Context(), tc.session))
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tc.allowed, ran)
			if tc.allowed {
				assert.Equal(t, http.StatusCreated, rr.Code)
				return
			}
			assert.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Equal(t, LoginPath, rr.Header().Get("Location"))
		})
	}
}
