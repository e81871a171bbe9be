package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfwise/shelfwise/internal/shared"
)

type handlerFixture struct {
	router   chi.Router
	service  *Service
	audit    *memoryAudit
	sessions *shared.SessionManager
}

func newHandlerFixture(t *testing.T) handlerFixture {
	t.Helper()
	recorder := &memoryAudit{}
	svc := NewService(newMemoryUsers(), recorder, WithCost(bcrypt.MinCost))
	sessions := shared.NewSessionManager(shared.NewMemoryStore(10*time.Minute), "shelfwise_session", 10*time.Minute, false)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, sessions)

	r := chi.NewRouter()
	r.Route("/users", h.MountRoutes)
	return handlerFixture{router: r, service: svc, audit: recorder, sessions: sessions}
}

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "shelfwise-test")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func aliceForm() url.Values {
	return url.Values{
		"username": {"alice1"},
		"first":    {"Alice"},
		"last":     {"Liddell"},
		"email":    {"a@b.com"},
		"password": {"longenough1"},
	}
}

func TestRegisterEchoesHashNotPassword(t *testing.T) {
	fx := newHandlerFixture(t)
	rr := postForm(fx.router, "/users/registered", aliceForm())
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, "Hello Alice Liddell, you are now registered!")
	assert.Contains(t, body, "a@b.com")
	assert.Contains(t, body, "$2a$")
	assert.NotContains(t, body, "longenough1")
}

func TestRegisterValidationProblem(t *testing.T) {
	fx := newHandlerFixture(t)
	rr := postForm(fx.router, "/users/registered", url.Values{"username": {"abc"}, "email": {"nope"}})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var payload struct {
		Errors []struct {
			Field  string `json:"field"`
			Reason string `json:"reason"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	fields := map[string]bool{}
	for _, e := range payload.Errors {
		fields[e.Field] = true
	}
	for _, f := range []string{"username", "first", "last", "email", "password"} {
		assert.True(t, fields[f], f)
	}
}

func TestRegisterDuplicateConflict(t *testing.T) {
	fx := newHandlerFixture(t)
	require.Equal(t, http.StatusOK, postForm(fx.router, "/users/registered", aliceForm()).Code)
	rr := postForm(fx.router, "/users/registered", aliceForm())
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLoginSuccessStartsSession(t *testing.T) {
	fx := newHandlerFixture(t)
	require.Equal(t, http.StatusOK, postForm(fx.router, "/users/registered", aliceForm()).Code)

	rr := postForm(fx.router, "/users/loggedin", url.Values{"username": {"alice1"}, "password": {"longenough1"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Welcome, alice1")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, fx.sessions.CookieName(), cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.WithinDuration(t, time.Now().Add(fx.sessions.TTL()), cookies[0].Expires, 5*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	sess, err := fx.sessions.Load(req.Context(), req)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "alice1", sess.Principal.Username)

	require.Equal(t, 1, fx.audit.count())
	entry := fx.audit.last()
	assert.True(t, entry.Success())
	assert.Equal(t, "shelfwise-test", entry.UserAgent)
	assert.Equal(t, "192.0.2.1", entry.IPAddress)
}

func TestLoginWrongPasswordIsAudited(t *testing.T) {
	fx := newHandlerFixture(t)
	require.Equal(t, http.StatusOK, postForm(fx.router, "/users/registered", aliceForm()).Code)

	rr := postForm(fx.router, "/users/loggedin", url.Values{"username": {"alice1"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, msgLoginFailed, rr.Body.String())
	assert.Empty(t, rr.Result().Cookies())

	require.Equal(t, 1, fx.audit.count())
	assert.False(t, fx.audit.last().Success())
}

func TestLoginMissingFields(t *testing.T) {
	fx := newHandlerFixture(t)
	rr := postForm(fx.router, "/users/loggedin", url.Values{"username": {"alice1"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 1, fx.audit.count())
}

func TestLoginAuditOutageFails(t *testing.T) {
	fx := newHandlerFixture(t)
	require.Equal(t, http.StatusOK, postForm(fx.router, "/users/registered", aliceForm()).Code)
	fx.audit.err = errAuditDown

	rr := postForm(fx.router, "/users/loggedin", url.Values{"username": {"alice1"}, "password": {"longenough1"}})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestLogoutClearsCookie(t *testing.T) {
	fx := newHandlerFixture(t)
	rr := postForm(fx.router, "/users/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, LoginPath, rr.Header().Get("Location"))
}
