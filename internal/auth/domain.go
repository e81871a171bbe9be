package auth

import (
	"time"

	"github.com/shelfwise/shelfwise/internal/audit"
	"github.com/shelfwise/shelfwise/internal/shared"
)

// User represents a registered account. Accounts are never updated or deleted.
type User struct {
	ID           int64
	Username     string
	First        string
	Last         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Principal returns the session identity for the user.
func (u User) Principal() shared.Principal {
	return shared.Principal{UserID: u.ID, Username: u.Username}
}

// Registration is a sign-up submission.
type Registration struct {
	Username string
	First    string
	Last     string
	Email    string
	Password string
}

// Attempt is one login submission with its client metadata.
type Attempt struct {
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

// Reason explains a login outcome. Failure reasons are only recorded in the
// audit log; callers see a uniform message.
type Reason string

const (
	ReasonOK            Reason = "ok"
	ReasonMissingFields Reason = "missing_fields"
	ReasonUnknownUser   Reason = "unknown_user"
	ReasonBadPassword   Reason = "bad_password"
)

// Verification is the outcome of checking a username/password pair.
type Verification struct {
	User   *User
	Reason Reason
}

// Match reports whether the credentials were accepted.
func (v Verification) Match() bool {
	return v.Reason == ReasonOK && v.User != nil
}

// Result is the structured login outcome returned to the transport layer.
type Result struct {
	Authenticated bool
	Reason        Reason
	Message       string
	Principal     shared.Principal
	Audit         audit.Entry
}

const (
	msgMissingFields = "Username and password are required."
	msgLoginFailed   = "Login failed: invalid username or password"
)
