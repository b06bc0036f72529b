// Package reconcile applies generation completion signals to task
// records exactly once. Completions arrive over two independent channels,
// an inbound provider callback (push) and periodic result polling (pull);
// both feed the same apply operation, whose write-once guard makes the
// outcome identical regardless of arrival order.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/events"
	"github.com/careerforge/pitch-api/internal/platform/logger"
	"github.com/careerforge/pitch-api/internal/store"
	"github.com/google/uuid"
)

// Reconciler applies completion signals to the task store and notifies
// in-process listeners when an apply wins.
type Reconciler struct {
	tasks    store.TaskStore
	notifier *events.CompletionNotifier
	logger   *slog.Logger
}

// NewReconciler creates a Reconciler. The notifier may be nil; completion
// events are then simply not broadcast.
func NewReconciler(
	tasks store.TaskStore,
	notifier *events.CompletionNotifier,
	log *slog.Logger,
) (*Reconciler, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Reconciler{
		tasks:    tasks,
		notifier: notifier,
		logger:   log.With("component", "reconciler"),
	}, nil
}

// Apply writes the payload to the task's result field if, and only if, no
// result is stored yet. It returns whether this call won the write. A
// losing apply is a silent no-op, not an error: the push and pull paths
// may race and both deliver the same or a stale result.
//
// Returns store.ErrTaskNotFound when no task record exists for the ID,
// and domain.ErrEmptyResult for an empty payload, which can never be a
// completion signal.
func (r *Reconciler) Apply(ctx context.Context, taskID uuid.UUID, payload string) (bool, error) {
	if taskID == uuid.Nil {
		return false, domain.ErrTaskIDEmpty
	}
	if payload == "" {
		return false, domain.ErrEmptyResult
	}

	log := logger.FromContextOrDefault(ctx, r.logger).With("task_id", taskID.String())

	applied, err := r.tasks.SetResultIfEmpty(ctx, taskID, payload)
	if err != nil {
		return false, fmt.Errorf("failed to apply completion: %w", err)
	}

	if !applied {
		log.Debug("completion already applied, ignoring duplicate signal")
		return false, nil
	}

	log.Info("completion applied", "payload_length", len(payload))

	if r.notifier != nil {
		r.notifier.Publish(events.NewTaskCompletedEvent(taskID, payload))
	}

	return true, nil
}

// Result reads the task record's current state. Used by the poll endpoint;
// a read has no side effects.
func (r *Reconciler) Result(ctx context.Context, taskID uuid.UUID) (*domain.TaskRecord, error) {
	if taskID == uuid.Nil {
		return nil, domain.ErrTaskIDEmpty
	}
	return r.tasks.GetTask(ctx, taskID)
}
