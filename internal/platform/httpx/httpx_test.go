package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise/internal/shared"
	"github.com/shelfwise/shelfwise/internal/validate"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{shared.ErrAuthenticationFailed, http.StatusUnauthorized},
		{shared.ErrDuplicateIdentity, http.StatusConflict},
		{shared.ErrNotFound, http.StatusNotFound},
		{shared.ErrUpstreamUnavailable, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("list: %w", shared.ErrStoreUnavailable), http.StatusInternalServerError},
		{validate.Errors{{Field: "x", Reason: "bad"}}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), "%v", tc.err)
	}
}

func TestRespondErrorValidationListsFields(t *testing.T) {
	res := httptest.NewRecorder()
	RespondError(res, validate.Errors{{Field: "email", Reason: "Please enter a valid email address."}})
	require.Equal(t, http.StatusBadRequest, res.Code)

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email", body.Errors[0].Field)
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	res := httptest.NewRecorder()
	RespondError(res, fmt.Errorf("insert: %w: connection refused", shared.ErrStoreUnavailable))
	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.NotContains(t, res.Body.String(), "connection refused")
}
