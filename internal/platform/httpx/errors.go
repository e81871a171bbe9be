// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/shelfwise/shelfwise/internal/shared"
	"github.com/shelfwise/shelfwise/internal/validate"
)

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrDuplicateIdentity):
		return http.StatusConflict
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps domain errors to HTTP responses using RFC7807.
// Infrastructure errors never leak their detail.
func RespondError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	switch status {
	case http.StatusBadRequest:
		problem := ProblemDetail{Title: "Validation Failed", Status: status, Detail: err.Error()}
		if errs, ok := validate.AsErrors(err); ok {
			problem.Errors = errs
		}
		JSON(w, status, problem)
	case http.StatusUnauthorized:
		Problem(w, status, "Unauthorized", shared.UserSafeMessage(err))
	case http.StatusConflict:
		Problem(w, status, "Duplicate", shared.UserSafeMessage(err))
	case http.StatusNotFound:
		Problem(w, status, "Not Found", shared.UserSafeMessage(err))
	case http.StatusBadGateway:
		Problem(w, status, "Upstream Unavailable", shared.UserSafeMessage(err))
	default:
		Problem(w, status, "Internal Error", "")
	}
}
