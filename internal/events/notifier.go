package events

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// CompletionNotifier broadcasts task completion events to per-task
// subscribers. It is purely an in-process optimization: correctness never
// depends on a notification arriving, because the task record in the
// store remains the source of truth and every consumer re-reads it.
type CompletionNotifier struct {
	mu     sync.Mutex
	subs   map[uuid.UUID][]chan TaskCompletedEvent
	logger *slog.Logger
}

// NewCompletionNotifier creates a new CompletionNotifier.
func NewCompletionNotifier(logger *slog.Logger) *CompletionNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompletionNotifier{
		subs:   make(map[uuid.UUID][]chan TaskCompletedEvent),
		logger: logger.With("component", "completion_notifier"),
	}
}

// Subscribe registers interest in completions for the given task ID.
// It returns a buffered channel that receives at most one event, and a
// cancel function the caller must invoke when it stops listening.
// Cancel is safe to call multiple times.
func (n *CompletionNotifier) Subscribe(taskID uuid.UUID) (<-chan TaskCompletedEvent, func()) {
	ch := make(chan TaskCompletedEvent, 1)

	n.mu.Lock()
	n.subs[taskID] = append(n.subs[taskID], ch)
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			chans := n.subs[taskID]
			for i, c := range chans {
				if c == ch {
					n.subs[taskID] = append(chans[:i], chans[i+1:]...)
					break
				}
			}
			if len(n.subs[taskID]) == 0 {
				delete(n.subs, taskID)
			}
		})
	}

	return ch, cancel
}

// Publish delivers the event to all current subscribers for its task ID
// and drops their registrations; a completion is terminal, so there is
// nothing further to deliver. Sends never block: each subscriber channel
// is buffered for exactly one event.
func (n *CompletionNotifier) Publish(event TaskCompletedEvent) {
	n.mu.Lock()
	chans := n.subs[event.TaskID]
	delete(n.subs, event.TaskID)
	n.mu.Unlock()

	n.logger.Debug("publishing completion event",
		"task_id", event.TaskID,
		"subscriber_count", len(chans))

	for _, ch := range chans {
		select {
		case ch <- event:
		default:
			// Subscriber already received an event and never drained it.
		}
	}
}
