package store

import (
	"context"
	"database/sql"

	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/google/uuid"
)

// DraftStore defines the interface for draft data persistence.
// Version: 1.0
type DraftStore interface {
	// Create saves a new draft to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Draft if data is invalid.
	Create(ctx context.Context, draft *domain.Draft) error

	// GetByID retrieves a draft by its unique ID.
	// Returns ErrDraftNotFound if the draft does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Draft, error)

	// Update saves changes to an existing draft's wizard inputs.
	// Returns ErrDraftNotFound if the draft does not exist.
	// Returns validation errors if the draft data is invalid.
	Update(ctx context.Context, draft *domain.Draft) error

	// Delete removes a draft and its task record fields.
	// Returns ErrDraftNotFound if the draft does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new DraftStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) DraftStore
}
