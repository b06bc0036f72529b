package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/careerforge/pitch-api/internal/events"
	"github.com/careerforge/pitch-api/internal/platform/logger"
	"github.com/careerforge/pitch-api/internal/store"
	"github.com/google/uuid"
)

// PollerConfig bounds the pull completion path.
type PollerConfig struct {
	// Interval is the delay between result reads.
	Interval time.Duration

	// MaxAttempts caps how many reads are made before ErrPollTimeout.
	MaxAttempts int
}

// DefaultPollerConfig returns a PollerConfig with reasonable defaults:
// a read every three seconds for up to two minutes.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:    3 * time.Second,
		MaxAttempts: 40,
	}
}

// Poller drives the pull completion path: it re-reads a task's result on
// a fixed interval until the result appears, the attempt budget runs out,
// or the context is cancelled. Cancellation is cooperative through the
// context rather than shared flags, so an abandoned wait cannot leak its
// loop.
type Poller struct {
	tasks    store.TaskStore
	notifier *events.CompletionNotifier
	config   PollerConfig
	logger   *slog.Logger
}

// NewPoller creates a Poller. The notifier may be nil; the poller then
// relies on interval reads alone.
func NewPoller(
	tasks store.TaskStore,
	notifier *events.CompletionNotifier,
	config PollerConfig,
	log *slog.Logger,
) (*Poller, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if config.Interval <= 0 {
		return nil, errors.New("poll interval must be positive")
	}
	if config.MaxAttempts <= 0 {
		return nil, errors.New("poll attempt budget must be positive")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Poller{
		tasks:    tasks,
		notifier: notifier,
		config:   config,
		logger:   log.With("component", "poller"),
	}, nil
}

// Await blocks until the task's result is observed, returning the payload.
// Read errors are swallowed and retried within the attempt budget; once
// the budget is exhausted ErrPollTimeout is returned. A completion pushed
// through the notifier wakes the wait immediately instead of on the next
// tick. Await returns ctx.Err() if the context is cancelled first.
func (p *Poller) Await(ctx context.Context, taskID uuid.UUID) (string, error) {
	log := logger.FromContextOrDefault(ctx, p.logger).With("task_id", taskID.String())

	var completed <-chan events.TaskCompletedEvent
	if p.notifier != nil {
		ch, cancel := p.notifier.Subscribe(taskID)
		defer cancel()
		completed = ch
	}

	timer := time.NewTimer(0) // first read happens immediately
	defer timer.Stop()

	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case event := <-completed:
			log.Debug("woken by completion event")
			return event.Result, nil

		case <-timer.C:
			rec, err := p.tasks.GetTask(ctx, taskID)
			if err != nil {
				// Swallowed and retried within the budget; the store is
				// the source of truth and a transient read failure must
				// not abort the wait.
				log.Warn("poll read failed, will retry",
					"attempt", attempt,
					"error", err)
			} else if rec.Completed() {
				log.Debug("result observed by polling", "attempt", attempt)
				return rec.ResultPayload, nil
			}

			timer.Reset(p.config.Interval)
		}
	}

	log.Info("poll attempt budget exhausted",
		"max_attempts", p.config.MaxAttempts)
	return "", ErrPollTimeout
}
