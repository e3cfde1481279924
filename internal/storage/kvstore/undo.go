package kvstore

import (
	"fmt"
	"time"

	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/undo"
)

const collUndo = "undo"

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

// stubUndo replaces a persisted entry's thunk with one that always fails,
// since the original closure was lost across the restart.
func stubUndo(id string) func() error {
	return func() error {
		return fmt.Errorf("undo entry %s: %w", id, errUndoNotReplayable)
	}
}

var errUndoNotReplayable = core.New("kvstore.undo", core.KindUndo, fmt.Errorf("thunk was not persisted and cannot be replayed after restart"))

func fromUndoRecord(r UndoRecord) undo.Entry {
	return undo.Entry{
		ID: r.ID, TaskID: r.TaskID, Action: r.Action,
		Description: r.Description, Timestamp: r.Timestamp,
		Undo: stubUndo(r.ID),
	}
}

// SaveUndoEntry persists an undo log entry keyed by its ID.
func (s *Store) SaveUndoEntry(e undo.Entry) error {
	return s.put(collUndo, e.ID, toUndoRecord(e))
}

// DeleteUndoEntry removes a persisted undo entry, e.g. once it has been
// evicted from the in-memory MRU list.
func (s *Store) DeleteUndoEntry(id string) error {
	return s.delete(collUndo, id)
}

// ListUndoEntries returns every persisted undo entry, unordered, with
// stubbed (non-replayable) Undo thunks.
func (s *Store) ListUndoEntries() ([]undo.Entry, error) {
	var out []undo.Entry
	err := s.listInto(collUndo, func() any { return new(UndoRecord) }, func(v any) {
		out = append(out, fromUndoRecord(*v.(*UndoRecord)))
	})
	return out, err
}
