package audit

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Outcome is the result of one login attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Entry is an immutable record of one login attempt.
type Entry struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Outcome   Outcome   `json:"outcome"`
	Message   string    `json:"message"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// Success reports whether the attempt authenticated.
func (e Entry) Success() bool {
	return e.Outcome == OutcomeSuccess
}

// Widths of the audit_log text columns.
const (
	MaxUsernameLength  = 255
	MaxIPAddressLength = 64
)

// Bounded returns e with submitted text made storable: invalid UTF-8 and NUL
// bytes are replaced and the username and address are clipped to their
// column widths.
func (e Entry) Bounded() Entry {
	e.Username = clip(storable(e.Username), MaxUsernameLength)
	e.IPAddress = clip(storable(e.IPAddress), MaxIPAddressLength)
	e.UserAgent = storable(e.UserAgent)
	return e
}

func storable(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "\uFFFD")
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
