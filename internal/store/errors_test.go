package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityNotFoundErrorsWrapGeneric(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.Is(ErrDraftNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrTaskNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrInvalidEntity, ErrNotFound))
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(ErrDraftNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", ErrTaskNotFound)))
	assert.False(t, IsNotFoundError(errors.New("something else")))
	assert.False(t, IsNotFoundError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	inner := errors.New("connection reset")
	err := NewStoreError("draft", "update", "exec failed", inner)

	assert.Contains(t, err.Error(), "update operation on draft failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, errors.Is(err, inner))

	bare := NewStoreError("task", "read", "no rows", nil)
	assert.Equal(t, "read operation on task failed: no rows", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}
