// Package undo implements the Undo Log: a bounded MRU list of captured
// reversal thunks. Grounded on events.RingBuffer's fixed-capacity circular
// buffer, reused here in shape for the undo history.
package undo

import (
	"sync"
	"time"

	"github.com/dohr-michael/ozzie-core/internal/events"
)

// Entry is a captured reversal thunk from a completed task's result.
type Entry struct {
	ID          string
	TaskID      string
	Action      string
	Description string
	Undo        func() error
	Timestamp   time.Time
}

// Persister is the write-through hook an SDK instance wires so undo
// history survives a restart (spec §6.4). Defined here rather than taken
// as the sdk package's Adapter type directly to avoid an import cycle
// (sdk imports undo); sdk.Adapter satisfies this interface structurally.
type Persister interface {
	SaveUndoEntry(Entry) error
	DeleteUndoEntry(id string) error
}

// Log is the bounded MRU undo history.
type Log struct {
	mu       sync.Mutex
	entries  []Entry // entries[len-1] is most recent
	capacity int
	bus      *events.Bus
	persist  Persister
}

// DefaultCapacity is the default MRU list size.
const DefaultCapacity = 100

// NewLog creates an undo log with the given capacity (DefaultCapacity when
// capacity <= 0), publishing `undo` events to bus and, when persist is
// non-nil, writing every push/eviction/consumption through to it.
func NewLog(capacity int, bus *events.Bus, persist Persister) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity, bus: bus, persist: persist}
}

// Restore seeds the log from previously persisted entries without writing
// them back to the persistence adapter, since they are already there.
func (l *Log) Restore(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// Push appends a new undo entry, evicting the oldest if at capacity.
func (l *Log) Push(e Entry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	var evicted *Entry
	if len(l.entries) > l.capacity {
		ev := l.entries[0]
		evicted = &ev
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
	l.mu.Unlock()

	l.persistSave(e)
	if evicted != nil {
		l.persistDelete(evicted.ID)
	}
}

func (l *Log) persistSave(e Entry) {
	if l.persist == nil {
		return
	}
	if err := l.persist.SaveUndoEntry(e); err != nil {
		logger().Warn("persist undo entry failed", "entry_id", e.ID, "error", err)
	}
}

func (l *Log) persistDelete(id string) {
	if l.persist == nil {
		return
	}
	if err := l.persist.DeleteUndoEntry(id); err != nil {
		logger().Warn("delete persisted undo entry failed", "entry_id", id, "error", err)
	}
}

// CanUndo reports whether any entry is available.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries) > 0
}

// Undo pops the most recent entry, invokes its thunk, and emits `undo`.
// Invocation failures are logged and return false without re-enqueuing
// the entry.
func (l *Log) Undo() bool {
	l.mu.Lock()
	if len(l.entries) == 0 {
		l.mu.Unlock()
		return false
	}
	entry := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	l.mu.Unlock()

	l.persistDelete(entry.ID)
	return l.invoke(entry)
}

// UndoByID extracts and invokes the matching entry regardless of position.
func (l *Log) UndoByID(id string) bool {
	l.mu.Lock()
	idx := -1
	for i, e := range l.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		l.mu.Unlock()
		return false
	}
	entry := l.entries[idx]
	l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
	l.mu.Unlock()

	l.persistDelete(entry.ID)
	return l.invoke(entry)
}

func (l *Log) invoke(entry Entry) bool {
	ok := true
	if entry.Undo != nil {
		if err := entry.Undo(); err != nil {
			logger().Error("undo thunk failed", "entry_id", entry.ID, "task_id", entry.TaskID, "error", err)
			ok = false
		}
	}

	if l.bus != nil {
		l.bus.Publish(events.NewTypedEvent(events.SourceUndo, events.UndoPayload{
			EntryID: entry.ID,
			TaskID:  entry.TaskID,
			Action:  entry.Action,
			Ok:      ok,
		}))
	}
	return ok
}

// GetHistory returns up to limit entries, most recent first. limit <= 0
// returns the full history.
func (l *Log) GetHistory(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]Entry, n)
	for i := 0; i < n; i++ {
		result[i] = l.entries[len(l.entries)-1-i]
	}
	return result
}
