package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/platform/logger"
	"github.com/careerforge/pitch-api/internal/store"
)

// DraftService provides draft persistence with ownership enforcement.
// A draft's ID doubles as the generation task ID, so Save is the single
// place new IDs enter the system.
type DraftService interface {
	// Save persists the wizard input. A nil id creates a new draft and
	// returns its generated ID; a non-nil id updates the existing draft.
	// Callers reuse the returned ID for every later save of the same
	// draft.
	Save(ctx context.Context, userID uuid.UUID, id *uuid.UUID, input domain.PitchInput) (uuid.UUID, error)

	// Load retrieves a draft owned by the given user.
	Load(ctx context.Context, userID, id uuid.UUID) (*domain.Draft, error)

	// Delete removes a draft owned by the given user.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// draftService is the store-backed DraftService implementation.
type draftService struct {
	drafts store.DraftStore
}

// NewDraftService creates a DraftService over the given store.
func NewDraftService(drafts store.DraftStore) (DraftService, error) {
	if drafts == nil {
		return nil, errors.New("draft store cannot be nil")
	}
	return &draftService{drafts: drafts}, nil
}

func (s *draftService) Save(
	ctx context.Context,
	userID uuid.UUID,
	id *uuid.UUID,
	input domain.PitchInput,
) (uuid.UUID, error) {
	log := logger.FromContext(ctx)

	if userID == uuid.Nil {
		return uuid.Nil, domain.ErrInvalidID
	}

	if id == nil {
		draft, err := domain.NewDraft(userID, input)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid draft input: %w", err)
		}
		if err := s.drafts.Create(ctx, draft); err != nil {
			return uuid.Nil, fmt.Errorf("failed to create draft: %w", err)
		}
		log.Debug("draft created", "draft_id", draft.ID.String(), "user_id", userID.String())
		return draft.ID, nil
	}

	draft, err := s.ownedDraft(ctx, userID, *id)
	if err != nil {
		return uuid.Nil, err
	}

	draft.Input = input
	draft.Touch()
	if err := draft.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("invalid draft input: %w", err)
	}
	if err := s.drafts.Update(ctx, draft); err != nil {
		return uuid.Nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return draft.ID, nil
}

func (s *draftService) Load(ctx context.Context, userID, id uuid.UUID) (*domain.Draft, error) {
	return s.ownedDraft(ctx, userID, id)
}

func (s *draftService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedDraft(ctx, userID, id); err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// ownedDraft loads a draft and verifies ownership. An existing draft
// owned by someone else surfaces as domain.ErrUnauthorized, not as
// not-found, so handlers can distinguish the two.
func (s *draftService) ownedDraft(ctx context.Context, userID, id uuid.UUID) (*domain.Draft, error) {
	if id == uuid.Nil {
		return nil, domain.ErrInvalidID
	}

	draft, err := s.drafts.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if draft.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return draft, nil
}
