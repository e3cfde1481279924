package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/undo"
)

// UndoRecord is the persistable projection of an undo.Entry: the captured
// Undo thunk is a closure over in-process state and cannot survive a
// restart, so only the entry's descriptive fields are saved.
type UndoRecord struct {
	ID          string
	TaskID      string
	Action      string
	Description string
	Timestamp   time.Time
}

func toUndoRecord(e undo.Entry) UndoRecord {
	return UndoRecord{
		ID: e.ID, TaskID: e.TaskID, Action: e.Action,
		Description: e.Description, Timestamp: e.Timestamp,
	}
}

var errUndoNotReplayable = core.New("sqlitestore.undo", core.KindUndo, fmt.Errorf("thunk was not persisted and cannot be replayed after restart"))

func stubUndo(id string) func() error {
	return func() error {
		return fmt.Errorf("undo entry %s: %w", id, errUndoNotReplayable)
	}
}

func fromUndoRecord(r UndoRecord) undo.Entry {
	return undo.Entry{
		ID: r.ID, TaskID: r.TaskID, Action: r.Action,
		Description: r.Description, Timestamp: r.Timestamp,
		Undo: stubUndo(r.ID),
	}
}

// SaveUndoEntry queues an upsert of an undo log entry keyed by ID, indexed
// by task ID so a task's undo history can be looked up without a scan.
func (s *Store) SaveUndoEntry(e undo.Entry) {
	data, err := json.Marshal(toUndoRecord(e))
	if err != nil {
		corelog.For("sqlitestore").Error("marshal undo entry failed", "id", e.ID, "error", err)
		return
	}
	s.enqueue(func(db *sql.DB) error {
		_, err := db.Exec(`INSERT INTO undo_entries (id, task_id, data) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET task_id = excluded.task_id, data = excluded.data`,
			e.ID, e.TaskID, string(data))
		return err
	})
}

// DeleteUndoEntry queues removal of a persisted undo entry.
func (s *Store) DeleteUndoEntry(id string) {
	s.enqueue(func(db *sql.DB) error {
		_, err := db.Exec(`DELETE FROM undo_entries WHERE id = ?`, id)
		return err
	})
}

// ListUndoEntries synchronously returns every persisted undo entry,
// unordered, with stubbed (non-replayable) Undo thunks.
func (s *Store) ListUndoEntries() ([]undo.Entry, error) {
	rows, err := s.db.Query(`SELECT data FROM undo_entries`)
	if err != nil {
		return nil, fmt.Errorf("list undo entries: %w", err)
	}
	defer rows.Close()

	var out []undo.Entry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("list undo entries: %w", err)
		}
		var r UndoRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("decode undo entry: %w", err)
		}
		out = append(out, fromUndoRecord(r))
	}
	return out, rows.Err()
}

// ListUndoEntriesForTask serves from the task_id index rather than a scan.
func (s *Store) ListUndoEntriesForTask(taskID string) ([]undo.Entry, error) {
	rows, err := s.db.Query(`SELECT data FROM undo_entries WHERE task_id = ?`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list undo entries for task: %w", err)
	}
	defer rows.Close()

	var out []undo.Entry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("list undo entries for task: %w", err)
		}
		var r UndoRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("decode undo entry: %w", err)
		}
		out = append(out, fromUndoRecord(r))
	}
	return out, rows.Err()
}
