// Package dispatch turns a completed set of wizard inputs into exactly
// one outbound generation request. It owns the correlation-id lifecycle:
// the in-progress marker is written durably before the provider is
// called, and rolled back if the call fails, so a fresh dispatch attempt
// is always safe after any failure.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/platform/logger"
	"github.com/careerforge/pitch-api/internal/store"
	"github.com/google/uuid"
)

// Status describes the outcome of a dispatch call.
type Status string

// Possible dispatch outcome statuses.
const (
	// StatusCompleted means a result already exists; the stored payload
	// is returned and no provider call is made.
	StatusCompleted Status = "completed"

	// StatusInProgress means a dispatch is already underway for this
	// task; no new provider call is made.
	StatusInProgress Status = "in_progress"

	// StatusDispatched means a new generation request was accepted by the
	// provider; completion arrives later via callback or polling.
	StatusDispatched Status = "dispatched"
)

// Outcome is the structured result of a dispatch call.
type Outcome struct {
	Status Status `json:"status"`
	// Result carries the stored payload when Status is StatusCompleted.
	Result string `json:"result,omitempty"`
}

// SubmitRequest is the outbound generation request handed to a Provider.
type SubmitRequest struct {
	// TaskID doubles as the correlation ID the provider must echo back.
	TaskID uuid.UUID `json:"task_id"`

	// CallbackURL is the address the provider may push its completion to.
	CallbackURL string `json:"callback_url"`

	// Input is the full wizard input payload.
	Input domain.PitchInput `json:"input"`
}

// Provider submits generation requests to the external service.
// Submit returns once the provider has accepted the request; the result
// itself arrives asynchronously. Implementations classify failures with
// ErrInvalidConfig and ErrProviderRejected where applicable.
type Provider interface {
	Submit(ctx context.Context, req SubmitRequest) error
}

// Dispatcher coordinates the dispatch sequence against the task store and
// the provider.
type Dispatcher struct {
	tasks       store.TaskStore
	provider    Provider
	callbackURL string
	timeout     time.Duration
	logger      *slog.Logger
}

// NewDispatcher creates a Dispatcher. callbackURL is the absolute address
// of this service's callback endpoint; timeout bounds the provider call.
func NewDispatcher(
	tasks store.TaskStore,
	provider Provider,
	callbackURL string,
	timeout time.Duration,
	log *slog.Logger,
) (*Dispatcher, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if provider == nil {
		return nil, errors.New("provider cannot be nil")
	}
	if timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		tasks:       tasks,
		provider:    provider,
		callbackURL: callbackURL,
		timeout:     timeout,
		logger:      log.With("component", "dispatcher"),
	}, nil
}

// Dispatch performs the full dispatch sequence for the given task:
//
//  1. Idempotency check: a stored result short-circuits to
//     StatusCompleted with zero provider calls; an existing in-progress
//     marker short-circuits to StatusInProgress.
//  2. Durability-before-send: the correlation ID is written and confirmed
//     before any network activity.
//  3. The provider is called under a bounded deadline.
//  4. On any submit failure the marker is rolled back to null before the
//     error is returned, so retrying is safe.
//
// The task must already exist in the store; drafts are created lazily on
// first save, so dispatch is never the first write of a draft.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	taskID uuid.UUID,
	input domain.PitchInput,
) (*Outcome, error) {
	if taskID == uuid.Nil {
		return nil, ErrEmptyTaskID
	}

	log := logger.FromContextOrDefault(ctx, d.logger).With("task_id", taskID.String())

	// Idempotency check. Runs before the in-progress marker is written so
	// duplicate requests never touch the provider.
	rec, err := d.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task record: %w", err)
	}

	if rec.Completed() {
		log.Info("dispatch short-circuited, result already present")
		return &Outcome{Status: StatusCompleted, Result: rec.ResultPayload}, nil
	}

	if rec.InProgress() {
		log.Info("dispatch short-circuited, generation already in progress")
		return &Outcome{Status: StatusInProgress}, nil
	}

	// Durability-before-send. The marker write must be confirmed before
	// the provider call; if it fails, nothing has been sent and the
	// record is untouched.
	correlationID := taskID
	if err := d.tasks.SetCorrelationID(ctx, taskID, &correlationID); err != nil {
		log.Error("failed to mark task in progress", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrMarkFailed, err)
	}

	submitCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err = d.provider.Submit(submitCtx, SubmitRequest{
		TaskID:      taskID,
		CallbackURL: d.callbackURL,
		Input:       input,
	})
	if err != nil {
		return nil, d.rollback(ctx, taskID, err, log)
	}

	log.Info("generation request dispatched")
	return &Outcome{Status: StatusDispatched}, nil
}

// rollback clears the in-progress marker after a failed submit. This is a
// compensating action, not a transaction: if the rollback write itself
// fails the record is left falsely in-progress and the combined error is
// surfaced for operator attention.
//
// The write runs detached from the request context: a client disconnect
// cancels the submit, and the rollback must survive the very cancellation
// that triggered it or the record stays stuck in progress.
func (d *Dispatcher) rollback(
	ctx context.Context,
	taskID uuid.UUID,
	submitErr error,
	log *slog.Logger,
) error {
	log.Error("provider submit failed, rolling back in-progress marker",
		"error", submitErr)

	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if rbErr := d.tasks.SetCorrelationID(rbCtx, taskID, nil); rbErr != nil {
		log.Error("rollback write failed, task record is stuck in progress",
			"error", rbErr)
		return fmt.Errorf("%w: %v (submit error: %v)",
			ErrRollbackFailed, rbErr, submitErr)
	}

	// Preserve the provider's own classification (config vs. rejection)
	// for the error taxonomy while marking the dispatch as failed.
	if errors.Is(submitErr, ErrInvalidConfig) || errors.Is(submitErr, ErrProviderRejected) {
		return fmt.Errorf("%w: %w", ErrSubmitFailed, submitErr)
	}
	return fmt.Errorf("%w: %v", ErrSubmitFailed, submitErr)
}
