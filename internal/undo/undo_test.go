package undo

import (
	"errors"
	"testing"

	"github.com/dohr-michael/ozzie-core/internal/events"
)

func TestUndoCanUndoAndUndo(t *testing.T) {
	bus := events.NewBus(8)
	log := NewLog(0, bus, nil)

	invoked := false
	log.Push(Entry{ID: "u1", TaskID: "t1", Action: "create_note", Undo: func() error {
		invoked = true
		return nil
	}})

	if !log.CanUndo() {
		t.Fatal("expected CanUndo true")
	}
	if !log.Undo() {
		t.Fatal("expected undo to succeed")
	}
	if !invoked {
		t.Fatal("expected thunk invoked")
	}
	if log.CanUndo() {
		t.Fatal("expected CanUndo false after undo")
	}
}

func TestUndoFailureReturnsFalseAndDoesNotReenqueue(t *testing.T) {
	log := NewLog(0, nil, nil)
	log.Push(Entry{ID: "u1", Undo: func() error { return errors.New("boom") }})

	if log.Undo() {
		t.Fatal("expected undo to report failure")
	}
	if log.CanUndo() {
		t.Fatal("expected entry not re-enqueued after failure")
	}
}

func TestBoundedMRUEviction(t *testing.T) {
	log := NewLog(2, nil, nil)
	log.Push(Entry{ID: "a"})
	log.Push(Entry{ID: "b"})
	log.Push(Entry{ID: "c"})

	history := log.GetHistory(0)
	if len(history) != 2 {
		t.Fatalf("expected capacity-bounded history, got %d", len(history))
	}
	if history[0].ID != "c" || history[1].ID != "b" {
		t.Fatalf("expected MRU-first order dropping oldest, got %v", history)
	}
}

func TestUndoByID(t *testing.T) {
	log := NewLog(0, nil, nil)
	log.Push(Entry{ID: "a"})
	log.Push(Entry{ID: "b"})

	if !log.UndoByID("a") {
		t.Fatal("expected UndoByID to find and invoke entry a")
	}
	history := log.GetHistory(0)
	if len(history) != 1 || history[0].ID != "b" {
		t.Fatalf("expected only b remaining, got %v", history)
	}
}

type fakePersister struct {
	saved   []Entry
	deleted []string
}

func (f *fakePersister) SaveUndoEntry(e Entry) error {
	f.saved = append(f.saved, e)
	return nil
}

func (f *fakePersister) DeleteUndoEntry(id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestPushWritesThroughToPersister(t *testing.T) {
	p := &fakePersister{}
	log := NewLog(2, nil, p)

	log.Push(Entry{ID: "a"})
	log.Push(Entry{ID: "b"})
	log.Push(Entry{ID: "c"}) // evicts "a"

	if len(p.saved) != 3 {
		t.Fatalf("expected 3 saves, got %d", len(p.saved))
	}
	if len(p.deleted) != 1 || p.deleted[0] != "a" {
		t.Fatalf("expected eviction of a to delete it from persistence, got %v", p.deleted)
	}
}

func TestUndoDeletesFromPersisterOnConsumption(t *testing.T) {
	p := &fakePersister{}
	log := NewLog(0, nil, p)
	log.Push(Entry{ID: "a"})

	if !log.Undo() {
		t.Fatal("expected undo to succeed")
	}
	if len(p.deleted) != 1 || p.deleted[0] != "a" {
		t.Fatalf("expected consumed entry removed from persistence, got %v", p.deleted)
	}
}

func TestRestoreSeedsWithoutReplayingToPersister(t *testing.T) {
	p := &fakePersister{}
	log := NewLog(0, nil, p)

	log.Restore([]Entry{{ID: "a"}, {ID: "b"}})

	if len(p.saved) != 0 {
		t.Fatalf("expected Restore not to write back to the adapter, got %d saves", len(p.saved))
	}
	if len(log.GetHistory(0)) != 2 {
		t.Fatalf("expected both restored entries in history")
	}
}
