// Package tasks holds the Task Store: the dispatchable record produced by
// enqueuing a ClassifiedTask, its status lifecycle, and the secondary
// by-queue index list() relies on.
package tasks

import "time"

// Status is the lifecycle state of a Task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusDeadletter Status = "deadletter"
)

// IsTerminal reports whether s is one of the frozen terminal states.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusDeadletter:
		return true
	default:
		return false
	}
}

// Checkpoint is an optional note attached to a task on a failed attempt,
// explaining why attempt N failed without growing the error taxonomy.
// Supplements spec's prepareRetry with resumable context (see DESIGN.md,
// "Checkpointing / retry resumption").
type Checkpoint struct {
	Attempt int
	At      time.Time
	Note    string
}

// Result holds a completed task's outcome. Undo, when non-nil, is a
// reversal thunk captured into the undo log.
type Result struct {
	Value any
	Undo  func() error
}

// Task is the dispatchable, stateful record.
type Task struct {
	ID          string
	Action      string
	Content     string
	Params      map[string]any
	Priority    int
	Queue       string
	Status      Status
	Attempt     int
	MaxAttempts int
	DependsOn   []string

	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	LastError   string
	Checkpoints []Checkpoint
	Result      *Result
	AgentID     string
}
