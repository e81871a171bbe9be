package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or missing input the user can correct.
	ErrValidation = errors.New("validation failed")
	// ErrAuthenticationFailed indicates bad credentials or an unknown identity.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrDuplicateIdentity occurs when a username or email is already registered.
	ErrDuplicateIdentity = errors.New("username or email already registered")
	// ErrStoreUnavailable wraps infrastructure failures from the data store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUpstreamUnavailable wraps failures of external HTTP collaborators.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrSessionNotFound is returned by session stores for unknown or expired tokens.
	ErrSessionNotFound = errors.New("session not found")
)

// UserSafeMessage returns a message that can be shown to end users.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return err.Error()
	case errors.Is(err, ErrAuthenticationFailed):
		return "Login failed: invalid username or password"
	case errors.Is(err, ErrDuplicateIdentity):
		return "That username or email is already registered."
	case errors.Is(err, ErrNotFound):
		return "The requested item was not found."
	case errors.Is(err, ErrUpstreamUnavailable):
		return "The service is temporarily unavailable."
	default:
		return "Something went wrong. Please try again later."
	}
}
