package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesDerivedCopies(t *testing.T) {
	err := ErrNotFound.WithMessage("user not found").WithCause(fmt.Errorf("no rows"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	_ = ErrUpstream.WithDetail("index", "users")

	assert.Empty(t, ErrUpstream.Details)
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"conflict", ErrConflict.WithMessage("Email already exists"), http.StatusConflict},
		{"validation", ErrValidation, http.StatusBadRequest},
		{"disabled", ErrFeatureDisabled, http.StatusServiceUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestToErrorResponse_UpstreamExposesCauseAndDetails(t *testing.T) {
	err := ErrUpstream.WithCause(errors.New("connection refused")).WithDetail("index", "logs")

	resp := ToErrorResponse(err)

	require.Equal(t, "connection refused", resp["error"])
	assert.Equal(t, "UPSTREAM_FAILURE", resp["error_code"])
	assert.Equal(t, "logs", resp["index"])
}

func TestToErrorResponse_ClientErrorKeepsMessage(t *testing.T) {
	err := ErrConflict.WithMessage("Email already exists").WithCause(errors.New("pq: duplicate key"))

	resp := ToErrorResponse(err)

	assert.Equal(t, "Email already exists", resp["error"])
}

func TestToErrorResponse_WrapsUnknownErrors(t *testing.T) {
	resp := ToErrorResponse(errors.New("disk full"))

	assert.Equal(t, "disk full", resp["error"])
	assert.Equal(t, "INTERNAL_ERROR", resp["error_code"])
}
