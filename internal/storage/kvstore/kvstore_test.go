package kvstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/agents"
	"github.com/dohr-michael/ozzie-core/internal/queues"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
	"github.com/dohr-michael/ozzie-core/internal/undo"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "kv")
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestActionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	a := actions.Action{Name: "open_file", Description: "opens a file", Enabled: true}

	if err := s.SaveAction(a); err != nil {
		t.Fatalf("SaveAction: %v", err)
	}
	got, err := s.LoadAction("open_file")
	if err != nil {
		t.Fatalf("LoadAction: %v", err)
	}
	if got.Name != a.Name || got.Description != a.Description || got.Enabled != a.Enabled {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, a)
	}

	list, err := s.ListActions()
	if err != nil || len(list) != 1 {
		t.Errorf("ListActions = %v, %v; want 1 entry", list, err)
	}

	if err := s.DeleteAction("open_file"); err != nil {
		t.Fatalf("DeleteAction: %v", err)
	}
	if _, err := s.LoadAction("open_file"); err == nil {
		t.Error("expected error loading deleted action")
	}
}

func TestAgentRoundTrip(t *testing.T) {
	s := openTestStore(t)
	a := agents.Agent{ID: "agent_1", Name: "filer", Queues: []string{"files"}, Priority: 5, Enabled: true}

	if err := s.SaveAgent(a); err != nil {
		t.Fatalf("SaveAgent: %v", err)
	}
	got, err := s.LoadAgent("agent_1")
	if err != nil {
		t.Fatalf("LoadAgent: %v", err)
	}
	if got.Name != a.Name || got.Priority != a.Priority {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
}

func TestQueueRoundTrip(t *testing.T) {
	s := openTestStore(t)
	q := queues.Queue{ID: "q1", Name: "files", Concurrency: 3, Overflow: queues.OverflowDeadletter}

	if err := s.SaveQueue(q); err != nil {
		t.Fatalf("SaveQueue: %v", err)
	}
	got, err := s.LoadQueue("files")
	if err != nil {
		t.Fatalf("LoadQueue: %v", err)
	}
	if got.Concurrency != 3 || got.Overflow != queues.OverflowDeadletter {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)
	task := tasks.Task{
		ID: "task_1", Action: "open_file", Queue: "files",
		Status: tasks.StatusCompleted, CreatedAt: now,
		Result: &tasks.Result{Value: "ok", Undo: func() error { return nil }},
	}

	if err := s.SaveTask(task); err != nil {
		t.Fatalf("SaveTask: %v", err)
	}
	got, err := s.LoadTask("task_1")
	if err != nil {
		t.Fatalf("LoadTask: %v", err)
	}
	if got.Status != tasks.StatusCompleted || got.Result == nil || got.Result.Value != "ok" {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
	if got.Result.Undo != nil {
		t.Error("restored task's Undo thunk should not be populated")
	}
}

func TestUndoEntryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	entry := undo.Entry{ID: "undo_1", TaskID: "task_1", Action: "open_file", Undo: func() error { return nil }}

	if err := s.SaveUndoEntry(entry); err != nil {
		t.Fatalf("SaveUndoEntry: %v", err)
	}
	list, err := s.ListUndoEntries()
	if err != nil || len(list) != 1 {
		t.Fatalf("ListUndoEntries = %v, %v", list, err)
	}
	if list[0].Undo == nil {
		t.Fatal("expected a stub Undo thunk")
	}
	if err := list[0].Undo(); err == nil {
		t.Error("stub Undo thunk should fail")
	}

	if err := s.DeleteUndoEntry("undo_1"); err != nil {
		t.Fatalf("DeleteUndoEntry: %v", err)
	}
	list, err = s.ListUndoEntries()
	if err != nil || len(list) != 0 {
		t.Errorf("expected empty list after delete, got %v", list)
	}
}
