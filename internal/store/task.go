package store

import (
	"context"

	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/google/uuid"
)

// TaskStore defines the interface for the task record fields that track
// asynchronous generation: the correlation ID and the result payload.
// Task records share identity with drafts (the draft ID is the task ID),
// so implementations address the same underlying rows as DraftStore.
//
// All mutations are single-field and idempotent; coordination between the
// dispatch, callback, and poll request paths happens entirely through
// these fields, which require read-after-write consistency.
// Version: 1.0
type TaskStore interface {
	// GetTask retrieves the task record for the given ID.
	// Returns ErrTaskNotFound if no draft with that ID exists.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.TaskRecord, error)

	// SetCorrelationID writes the correlation ID for the given task.
	// A nil correlationID clears the field; this is the compensating
	// rollback write after a failed dispatch. The write must be confirmed
	// before the caller proceeds (durability-before-send).
	// Returns ErrTaskNotFound if no draft with that ID exists.
	SetCorrelationID(ctx context.Context, id uuid.UUID, correlationID *uuid.UUID) error

	// SetResultIfEmpty writes the result payload only if no result is
	// currently stored, returning whether the write was applied. A false
	// return with a nil error means another completion signal won the
	// race; callers treat that as a silent no-op.
	// Returns ErrTaskNotFound if no draft with that ID exists.
	SetResultIfEmpty(ctx context.Context, id uuid.UUID, payload string) (bool, error)
}
