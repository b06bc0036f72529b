package mocks

import (
	"context"
	"sync"

	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/store"
	"github.com/google/uuid"
)

// MemoryTaskStore implements store.TaskStore in memory with the same
// write-once result semantics as the PostgreSQL implementation. Behavior
// can be overridden per call via the Fn fields, and calls are counted for
// verification.
type MemoryTaskStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*domain.TaskRecord

	// Custom behavior functions; when set they replace the in-memory logic.
	GetTaskFn          func(ctx context.Context, id uuid.UUID) (*domain.TaskRecord, error)
	SetCorrelationIDFn func(ctx context.Context, id uuid.UUID, correlationID *uuid.UUID) error
	SetResultIfEmptyFn func(ctx context.Context, id uuid.UUID, payload string) (bool, error)

	// Call tracking for verification
	GetTaskCalls          int
	SetCorrelationIDCalls int
	SetResultIfEmptyCalls int
}

// NewMemoryTaskStore creates an empty MemoryTaskStore.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{records: make(map[uuid.UUID]*domain.TaskRecord)}
}

var _ store.TaskStore = (*MemoryTaskStore)(nil)

// Seed inserts a task record, creating it if needed. Returns the store
// for chaining in test setup.
func (s *MemoryTaskStore) Seed(rec domain.TaskRecord) *MemoryTaskStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := rec
	s.records[rec.ID] = &copied
	return s
}

// Record returns a snapshot of the stored record, or nil if absent.
func (s *MemoryTaskStore) Record(id uuid.UUID) *domain.TaskRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	copied := *rec
	return &copied
}

// GetTask implements store.TaskStore.
func (s *MemoryTaskStore) GetTask(ctx context.Context, id uuid.UUID) (*domain.TaskRecord, error) {
	s.mu.Lock()
	s.GetTaskCalls++
	fn := s.GetTaskFn
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *rec
	return &copied, nil
}

// SetCorrelationID implements store.TaskStore.
func (s *MemoryTaskStore) SetCorrelationID(
	ctx context.Context,
	id uuid.UUID,
	correlationID *uuid.UUID,
) error {
	s.mu.Lock()
	s.SetCorrelationIDCalls++
	fn := s.SetCorrelationIDFn
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, id, correlationID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	if correlationID == nil {
		rec.CorrelationID = nil
	} else {
		copied := *correlationID
		rec.CorrelationID = &copied
	}
	return nil
}

// SetResultIfEmpty implements store.TaskStore.
func (s *MemoryTaskStore) SetResultIfEmpty(
	ctx context.Context,
	id uuid.UUID,
	payload string,
) (bool, error) {
	s.mu.Lock()
	s.SetResultIfEmptyCalls++
	fn := s.SetResultIfEmptyFn
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, id, payload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return false, store.ErrTaskNotFound
	}
	if rec.ResultPayload != "" {
		return false, nil
	}
	rec.ResultPayload = payload
	return true, nil
}
