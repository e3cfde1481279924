package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

// TaskRecord is the persistable projection of a tasks.Task: Result.Undo is a
// func() error and cannot round-trip, so only Result.Value and whether an
// undo thunk existed are saved.
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

// SaveTask queues an upsert of a task, indexing it by queue and status so
// ListTasksByQueue and ListTasksByStatus can serve without a full scan.
func (s *Store) SaveTask(t tasks.Task) {
	data, err := json.Marshal(toTaskRecord(t))
	if err != nil {
		corelog.For("sqlitestore").Error("marshal task failed", "id", t.ID, "error", err)
		return
	}
	s.enqueue(func(db *sql.DB) error {
		_, err := db.Exec(`INSERT INTO tasks (id, queue, status, data) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET queue = excluded.queue, status = excluded.status, data = excluded.data`,
			t.ID, t.Queue, string(t.Status), string(data))
		return err
	})
}

// LoadTask synchronously reads a persisted task by ID.
func (s *Store) LoadTask(id string) (tasks.Task, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM tasks WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return tasks.Task{}, notFound("sqlitestore.tasks.Load", err)
	}
	if err != nil {
		return tasks.Task{}, fmt.Errorf("load task %s: %w", id, err)
	}
	var r TaskRecord
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return tasks.Task{}, fmt.Errorf("decode task %s: %w", id, err)
	}
	return fromTaskRecord(r), nil
}

// DeleteTask queues removal of a persisted task.
func (s *Store) DeleteTask(id string) {
	s.enqueue(func(db *sql.DB) error {
		_, err := db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
		return err
	})
}

// ListTasks synchronously returns every persisted task, unordered.
func (s *Store) ListTasks() ([]tasks.Task, error) {
	return s.queryTasks(`SELECT data FROM tasks`)
}

// ListTasksByQueue serves from the queue index rather than a full scan.
func (s *Store) ListTasksByQueue(queue string) ([]tasks.Task, error) {
	return s.queryTasks(`SELECT data FROM tasks WHERE queue = ?`, queue)
}

// ListTasksByStatus serves from the status index rather than a full scan.
func (s *Store) ListTasksByStatus(status tasks.Status) ([]tasks.Task, error) {
	return s.queryTasks(`SELECT data FROM tasks WHERE status = ?`, string(status))
}

func (s *Store) queryTasks(query string, args ...any) ([]tasks.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var out []tasks.Task
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("query tasks: %w", err)
		}
		var r TaskRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		out = append(out, fromTaskRecord(r))
	}
	return out, rows.Err()
}
