package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/store"
)

// txDraftService wraps draftService so that read-modify-write operations
// (ownership check + mutation) run inside a single transaction.
type txDraftService struct {
	base *draftService
	db   *sql.DB
}

// NewTransactionalDraftService creates a DraftService whose updates and
// deletes are transactional. Plain reads and first-save inserts are
// single statements and run outside a transaction.
func NewTransactionalDraftService(db *sql.DB, drafts store.DraftStore) (DraftService, error) {
	if db == nil {
		return nil, errors.New("database handle cannot be nil")
	}
	if drafts == nil {
		return nil, errors.New("draft store cannot be nil")
	}
	return &txDraftService{
		base: &draftService{drafts: drafts},
		db:   db,
	}, nil
}

func (s *txDraftService) Save(
	ctx context.Context,
	userID uuid.UUID,
	id *uuid.UUID,
	input domain.PitchInput,
) (uuid.UUID, error) {
	if id == nil {
		// First save is a single insert.
		return s.base.Save(ctx, userID, nil, input)
	}

	var out uuid.UUID
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		scoped := &draftService{drafts: s.base.drafts.WithTx(tx)}
		var err error
		out, err = scoped.Save(ctx, userID, id, input)
		return err
	})
	return out, err
}

func (s *txDraftService) Load(ctx context.Context, userID, id uuid.UUID) (*domain.Draft, error) {
	return s.base.Load(ctx, userID, id)
}

func (s *txDraftService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		scoped := &draftService{drafts: s.base.drafts.WithTx(tx)}
		return scoped.Delete(ctx, userID, id)
	})
}
