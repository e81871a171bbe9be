package shared

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Principal is the authenticated identity bound to a session.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Session holds the server-side state behind an opaque cookie token.
type Session struct {
	Token     string    `json:"-"`
	Principal Principal `json:"principal"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session lifetime elapsed at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

// SessionStore persists sessions keyed by token. The lifetime is fixed at
// creation and never extended by reads.
type SessionStore interface {
	Get(ctx context.Context, token string) (*Session, error)
	Create(ctx context.Context, principal Principal) (*Session, error)
	Invalidate(ctx context.Context, token string) error
}

// SessionManager binds a SessionStore to the cookie transport.
type SessionManager struct {
	store      SessionStore
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(store SessionStore, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		store:      store,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// Load resolves the session referenced by the request cookie. It returns nil
// without error when the request is anonymous or its session is gone.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}
	if cookie.Value == "" {
		return nil, nil
	}
	sess, err := sm.store.Get(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sess, nil
}

// Start creates a session for the principal and sets the cookie with the
// session's absolute expiry.
func (sm *SessionManager) Start(ctx context.Context, w http.ResponseWriter, principal Principal) (*Session, error) {
	sess, err := sm.store.Create(ctx, principal)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
	return sess, nil
}

// Destroy invalidates the session and clears the cookie.
func (sm *SessionManager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
	if sess == nil {
		return nil
	}
	return sm.store.Invalidate(ctx, sess.Token)
}

// TTL exposes the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// CookieName returns the cookie identifier used for sessions.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

func newToken() string {
	return uuid.NewString()
}
