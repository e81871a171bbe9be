package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfwise/shelfwise/internal/audit"
	audithttp "github.com/shelfwise/shelfwise/internal/audit/http"
	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/measurements"
	"github.com/shelfwise/shelfwise/internal/observability"
	"github.com/shelfwise/shelfwise/internal/shared"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]auth.User
}

func (m *memoryUsers) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (m *memoryUsers) Create(ctx context.Context, u auth.User) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return auth.User{}, shared.ErrDuplicateIdentity
	}
	u.ID = int64(len(m.users) + 1)
	m.users[u.Username] = u
	return u, nil
}

type memoryAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (m *memoryAudit) Insert(ctx context.Context, e audit.Entry) (audit.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = int64(len(m.entries) + 1)
	e.CreatedAt = time.Now()
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *memoryAudit) ListNewestFirst(ctx context.Context) ([]audit.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]audit.Entry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

type emptyMeasurements struct{}

func (emptyMeasurements) ListByUser(ctx context.Context, userID int64) ([]measurements.Measurement, error) {
	return []measurements.Measurement{}, nil
}

func (emptyMeasurements) Insert(ctx context.Context, userID int64, m measurements.Measurement) (measurements.Measurement, error) {
	return m, nil
}

type testServer struct {
	handler http.Handler
	metrics *observability.Metrics
	audit   *memoryAudit
}

func newTestServer(t *testing.T, health func(context.Context) error) testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{AppEnv: "test", SessionTTL: 10 * time.Minute}
	metrics := observability.NewMetrics("test")
	sessions := shared.NewSessionManager(shared.NewMemoryStore(cfg.SessionTTL), SessionCookieName, cfg.SessionTTL, false)

	auditRepo := &memoryAudit{}
	auditLogger := audit.NewLogger(auditRepo)
	authService := auth.NewService(&memoryUsers{users: map[string]auth.User{}}, auditLogger,
		auth.WithCost(bcrypt.MinCost), auth.WithObserver(metrics))

	handler := NewRouter(RouterParams{
		Logger:              logger,
		Config:              cfg,
		SessionManager:      sessions,
		Metrics:             metrics,
		Health:              health,
		AuthHandler:         auth.NewHandler(logger, authService, sessions),
		AuditHandler:        audithttp.NewHandler(logger, auditLogger),
		MeasurementsHandler: measurements.NewHandler(logger, measurements.NewService(emptyMeasurements{})),
	})
	return testServer{handler: handler, metrics: metrics, audit: auditRepo}
}

func (s testServer) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	rr := newTestServer(t, nil).do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	down := newTestServer(t, func(context.Context) error { return errors.New("no route to host") })
	rr = down.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestProtectedRoutesRedirectAnonymous(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, target := range []string{"/users/audit", "/users/audit/export.csv", "/metrics/bodymeasurements"} {
		rr := srv.do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusSeeOther, rr.Code, target)
		assert.Equal(t, auth.LoginPath, rr.Header().Get("Location"), target)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := newTestServer(t, nil).do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestLoginFlowThroughRouter(t *testing.T) {
	srv := newTestServer(t, nil)

	reg := url.Values{"username": {"alice1"}, "first": {"A"}, "last": {"B"}, "email": {"a@b.com"}, "password": {"longenough1"}}
	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/users/registered", reg).Code)

	bad := srv.do(http.MethodPost, "/users/loggedin", url.Values{"username": {"alice1"}, "password": {"nope-nope"}})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	ok := srv.do(http.MethodPost, "/users/loggedin", url.Values{"username": {"alice1"}, "password": {"longenough1"}})
	require.Equal(t, http.StatusOK, ok.Code)
	cookies := ok.Result().Cookies()
	require.NotEmpty(t, cookies)

	rr := srv.do(http.MethodGet, "/users/audit", nil, cookies...)
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Entries []audit.Entry `json:"audit_entries"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Entries, 2)
	assert.Equal(t, audit.OutcomeSuccess, body.Entries[0].Outcome)
	assert.Equal(t, audit.OutcomeFailure, body.Entries[1].Outcome)

	rr = srv.do(http.MethodGet, "/metrics/bodymeasurements", nil, cookies...)
	assert.Equal(t, http.StatusOK, rr.Code)

	out := srv.do(http.MethodPost, "/users/logout", url.Values{}, cookies...)
	assert.Equal(t, http.StatusSeeOther, out.Code)
	rr = srv.do(http.MethodGet, "/users/audit", nil, cookies...)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestMetricsEndpointCountsLogins(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.do(http.MethodPost, "/users/loggedin", url.Values{"username": {"ghost1"}, "password": {"whatever1"}})

	rr := srv.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `shelfwise_login_attempts_total{outcome="failure",reason="unknown_user",service="test"} 1`)
}
