// Package events provides in-process completion notification. The
// reconciler publishes a task's result the moment it is applied, and
// interested parties (in-flight poll loops, a review step waiting to
// render) subscribe by task ID so they observe a push completion without
// waiting for their next poll tick.
package events

import (
	"time"

	"github.com/google/uuid"
)

// TaskCompletedEvent describes a generation result that has just been
// applied to a task record.
type TaskCompletedEvent struct {
	// TaskID identifies the task whose result was applied.
	TaskID uuid.UUID `json:"task_id"`

	// Result is the applied payload.
	Result string `json:"result"`

	// CompletedAt is when the apply was observed in this process.
	CompletedAt time.Time `json:"completed_at"`
}

// NewTaskCompletedEvent creates a TaskCompletedEvent for the given task
// and payload, stamped with the current time.
func NewTaskCompletedEvent(taskID uuid.UUID, result string) TaskCompletedEvent {
	return TaskCompletedEvent{
		TaskID:      taskID,
		Result:      result,
		CompletedAt: time.Now().UTC(),
	}
}
