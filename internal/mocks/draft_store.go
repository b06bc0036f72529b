package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/store"
	"github.com/google/uuid"
)

// MemoryDraftStore implements store.DraftStore in memory.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]*domain.Draft

	// Custom behavior functions; when set they replace the in-memory logic.
	CreateFn  func(ctx context.Context, draft *domain.Draft) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Draft, error)
	UpdateFn  func(ctx context.Context, draft *domain.Draft) error

	// Call tracking for verification
	CreateCalls int
	UpdateCalls int
}

// NewMemoryDraftStore creates an empty MemoryDraftStore.
func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[uuid.UUID]*domain.Draft)}
}

var _ store.DraftStore = (*MemoryDraftStore)(nil)

// Seed inserts a draft. Returns the store for chaining in test setup.
func (s *MemoryDraftStore) Seed(draft domain.Draft) *MemoryDraftStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := draft
	s.drafts[draft.ID] = &copied
	return s
}

// Draft returns a snapshot of the stored draft, or nil if absent.
func (s *MemoryDraftStore) Draft(id uuid.UUID) *domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[id]
	if !ok {
		return nil
	}
	copied := *draft
	return &copied
}

// Create implements store.DraftStore.
func (s *MemoryDraftStore) Create(ctx context.Context, draft *domain.Draft) error {
	s.mu.Lock()
	s.CreateCalls++
	fn := s.CreateFn
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, draft)
	}

	if err := draft.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *draft
	s.drafts[draft.ID] = &copied
	return nil
}

// GetByID implements store.DraftStore.
func (s *MemoryDraftStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Draft, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[id]
	if !ok {
		return nil, store.ErrDraftNotFound
	}
	copied := *draft
	return &copied, nil
}

// Update implements store.DraftStore.
func (s *MemoryDraftStore) Update(ctx context.Context, draft *domain.Draft) error {
	s.mu.Lock()
	s.UpdateCalls++
	fn := s.UpdateFn
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, draft)
	}

	if err := draft.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[draft.ID]; !ok {
		return store.ErrDraftNotFound
	}
	copied := *draft
	s.drafts[draft.ID] = &copied
	return nil
}

// Delete implements store.DraftStore.
func (s *MemoryDraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return store.ErrDraftNotFound
	}
	delete(s.drafts, id)
	return nil
}

// WithTx implements store.DraftStore; the memory store has no transactions.
func (s *MemoryDraftStore) WithTx(tx *sql.Tx) store.DraftStore {
	return s
}
