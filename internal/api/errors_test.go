package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careerforge/pitch-api/internal/dispatch"
	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/reconcile"
	"github.com/careerforge/pitch-api/internal/service/auth"
	"github.com/careerforge/pitch-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid token", err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "foreign draft", err: domain.ErrUnauthorized, want: http.StatusForbidden},
		{name: "draft not found", err: store.ErrDraftNotFound, want: http.StatusNotFound},
		{name: "task not found", err: store.ErrTaskNotFound, want: http.StatusNotFound},
		{name: "validation", err: domain.ErrValidation, want: http.StatusBadRequest},
		{name: "empty result", err: domain.ErrEmptyResult, want: http.StatusBadRequest},
		{name: "provider rejected", err: dispatch.ErrProviderRejected, want: http.StatusBadGateway},
		{name: "submit failed", err: dispatch.ErrSubmitFailed, want: http.StatusBadGateway},
		{name: "provider misconfigured", err: dispatch.ErrInvalidConfig, want: http.StatusBadGateway},
		{name: "poll timeout", err: reconcile.ErrPollTimeout, want: http.StatusGatewayTimeout},
		{name: "rollback failed", err: dispatch.ErrRollbackFailed, want: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestMapErrorToStatusCodeUnwrapsChains(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("dispatch failed: %w", dispatch.ErrProviderRejected)
	assert.Equal(t, http.StatusBadGateway, MapErrorToStatusCode(wrapped))

	doubly := fmt.Errorf("handler: %w", fmt.Errorf("service: %w", store.ErrDraftNotFound))
	assert.Equal(t, http.StatusNotFound, MapErrorToStatusCode(doubly))
}

func TestGetSafeErrorMessageNeverEchoesInternals(t *testing.T) {
	t.Parallel()

	internal := errors.New(`pq: connection to "postgres://app:secret@db/pitches" refused`)
	msg := GetSafeErrorMessage(internal)
	assert.NotContains(t, msg, "postgres://")
	assert.NotContains(t, msg, "secret")
	assert.Equal(t, "An unexpected error occurred", msg)
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Pitch not found", GetSafeErrorMessage(store.ErrDraftNotFound))
	assert.Equal(t, "You do not own this pitch", GetSafeErrorMessage(domain.ErrUnauthorized))
	assert.Equal(t,
		"Generation service is unavailable, please try again",
		GetSafeErrorMessage(fmt.Errorf("submit: %w", dispatch.ErrSubmitFailed)))
}
