package kvstore

import (
	"time"

	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

const collTasks = "tasks"

// TaskRecord is the persistable projection of a tasks.Task: Result.Undo is
// a func() error and cannot round-trip through JSON, so only Result.Value
// and whether an undo thunk existed are saved. A restored task can be
// inspected and re-dispatched, but its captured undo thunk is gone — any
// corresponding undo.Entry found by the undo log adapter carries its own
// (also non-replayable) stub in its place.
type TaskRecord struct {
	ID          string
	Action      string
	Content     string
	Params      map[string]any
	Priority    int
	Queue       string
	Status      tasks.Status
	Attempt     int
	MaxAttempts int
	DependsOn   []string
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	LastError   string
	Checkpoints []tasks.Checkpoint
	AgentID     string
	ResultValue any  `json:"result_value,omitempty"`
	HadUndo     bool `json:"had_undo,omitempty"`
}

func toTaskRecord(t tasks.Task) TaskRecord {
	r := TaskRecord{
		ID: t.ID, Action: t.Action, Content: t.Content, Params: t.Params,
		Priority: t.Priority, Queue: t.Queue, Status: t.Status,
		Attempt: t.Attempt, MaxAttempts: t.MaxAttempts, DependsOn: t.DependsOn,
		CreatedAt: t.CreatedAt, StartedAt: t.StartedAt, CompletedAt: t.CompletedAt,
		LastError: t.LastError, Checkpoints: t.Checkpoints, AgentID: t.AgentID,
	}
	if t.Result != nil {
		r.ResultValue = t.Result.Value
		r.HadUndo = t.Result.Undo != nil
	}
	return r
}

func fromTaskRecord(r TaskRecord) tasks.Task {
	t := tasks.Task{
		ID: r.ID, Action: r.Action, Content: r.Content, Params: r.Params,
		Priority: r.Priority, Queue: r.Queue, Status: r.Status,
		Attempt: r.Attempt, MaxAttempts: r.MaxAttempts, DependsOn: r.DependsOn,
		CreatedAt: r.CreatedAt, StartedAt: r.StartedAt, CompletedAt: r.CompletedAt,
		LastError: r.LastError, Checkpoints: r.Checkpoints, AgentID: r.AgentID,
	}
	if r.ResultValue != nil || r.HadUndo {
		t.Result = &tasks.Result{Value: r.ResultValue}
	}
	return t
}

// SaveTask persists a task record keyed by ID.
func (s *Store) SaveTask(t tasks.Task) error {
	return s.put(collTasks, t.ID, toTaskRecord(t))
}

// LoadTask reads a persisted task by ID.
func (s *Store) LoadTask(id string) (tasks.Task, error) {
	var r TaskRecord
	if err := s.get(collTasks, id, &r); err != nil {
		return tasks.Task{}, err
	}
	return fromTaskRecord(r), nil
}

// DeleteTask removes a persisted task record.
func (s *Store) DeleteTask(id string) error {
	return s.delete(collTasks, id)
}

// ListTasks returns every persisted task, unordered.
func (s *Store) ListTasks() ([]tasks.Task, error) {
	var out []tasks.Task
	err := s.listInto(collTasks, func() any { return new(TaskRecord) }, func(v any) {
		out = append(out, fromTaskRecord(*v.(*TaskRecord)))
	})
	return out, err
}
