package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrEmptyResult is returned when a completion signal carries no text.
	// A non-empty result payload is the sole completion signal, so an
	// empty one can never be applied. It is the task-specific variant of
	// ErrEmptyContent (matched by errors.Is against either).
	ErrEmptyResult = fmt.Errorf("%w: result payload", ErrEmptyContent)
)

// TaskRecord is the async-generation view of a draft. It shares the draft's
// identity: the draft ID is deliberately reused as the correlation token
// handed to the external provider, so a single key joins the CRUD record
// and the asynchronous job.
//
// CorrelationID is nil while no generation is underway ("not started" or
// "failed to start") and set to the task's own ID from the moment a
// dispatch is durably marked until the dispatch either fails (rolled back
// to nil) or completes.
//
// ResultPayload is written exactly once per successful generation; a
// non-empty value is the sole completion signal.
type TaskRecord struct {
	ID            uuid.UUID  `json:"id"`
	CorrelationID *uuid.UUID `json:"correlation_id,omitempty"`
	ResultPayload string     `json:"result_payload,omitempty"`
}

// Completed reports whether a generation result has been applied.
func (t *TaskRecord) Completed() bool {
	return t.ResultPayload != ""
}

// InProgress reports whether a dispatch has been marked but no result has
// arrived yet.
func (t *TaskRecord) InProgress() bool {
	return t.CorrelationID != nil && !t.Completed()
}

// Validate checks if the TaskRecord has valid data.
func (t *TaskRecord) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}
	return nil
}
