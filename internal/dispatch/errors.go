package dispatch

import "errors"

// Common errors returned by the dispatch package.
var (
	// ErrEmptyTaskID is returned when a dispatch is attempted without a task ID.
	ErrEmptyTaskID = errors.New("task ID cannot be empty")

	// ErrInvalidConfig is returned when the provider configuration is
	// missing or malformed. Detected before any network call; fatal for
	// the attempt and never retried automatically.
	ErrInvalidConfig = errors.New("invalid provider configuration")

	// ErrProviderRejected is returned when the provider answered the
	// submit request with a non-success response. Treated like a
	// transport error: rolled back, retryable by the user.
	ErrProviderRejected = errors.New("provider rejected generation request")

	// ErrMarkFailed is returned when the in-progress marker could not be
	// written before the provider call. No dispatch is attempted in that
	// case.
	ErrMarkFailed = errors.New("failed to mark generation in progress")

	// ErrSubmitFailed is returned when the provider call itself failed
	// (transport error, timeout, or rejection) and the in-progress marker
	// was rolled back.
	ErrSubmitFailed = errors.New("failed to submit generation request")

	// ErrRollbackFailed is returned when the compensating rollback write
	// after a failed submit also failed. The record is left falsely
	// in-progress; this needs operator attention, so it is surfaced as a
	// distinct error rather than folded into ErrSubmitFailed.
	ErrRollbackFailed = errors.New("failed to roll back in-progress marker")
)
