package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/agents"
	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/queues"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
	"github.com/dohr-michael/ozzie-core/internal/undo"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ozzie.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	t.Cleanup(cancel)
	return s
}

func TestActionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	a := actions.Action{Name: "open_file", Description: "opens a file", Enabled: true}

	s.SaveAction(a)
	s.Sync()

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

	s.DeleteAction("open_file")
	s.Sync()
	if _, err := s.LoadAction("open_file"); !core.IsKind(err, core.KindNotFound) {
		t.Errorf("expected KindNotFound loading deleted action, got %v", err)
	}
}

func TestAgentRoundTrip(t *testing.T) {
	s := openTestStore(t)
	a := agents.Agent{ID: "agent_1", Name: "filer", Queues: []string{"files"}, Priority: 5, Enabled: true}

	s.SaveAgent(a)
	s.Sync()

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

	s.SaveQueue(q)
	s.Sync()

	got, err := s.LoadQueue("files")
	if err != nil {
		t.Fatalf("LoadQueue: %v", err)
	}
	if got.Concurrency != 3 || got.Overflow != queues.OverflowDeadletter {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
}

func TestTaskRoundTripAndIndexes(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)
	task := tasks.Task{
		ID: "task_1", Action: "open_file", Queue: "files",
		Status: tasks.StatusCompleted, CreatedAt: now,
		Result: &tasks.Result{Value: "ok", Undo: func() error { return nil }},
	}

	s.SaveTask(task)
	s.Sync()

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

	byQueue, err := s.ListTasksByQueue("files")
	if err != nil || len(byQueue) != 1 {
		t.Errorf("ListTasksByQueue = %v, %v; want 1 entry", byQueue, err)
	}
	byStatus, err := s.ListTasksByStatus(tasks.StatusCompleted)
	if err != nil || len(byStatus) != 1 {
		t.Errorf("ListTasksByStatus = %v, %v; want 1 entry", byStatus, err)
	}
	if empty, err := s.ListTasksByQueue("voice"); err != nil || len(empty) != 0 {
		t.Errorf("ListTasksByQueue(voice) = %v, %v; want empty", empty, err)
	}
}

func TestUndoEntryRoundTripAndTaskIndex(t *testing.T) {
	s := openTestStore(t)
	entry := undo.Entry{ID: "undo_1", TaskID: "task_1", Action: "open_file", Undo: func() error { return nil }}

	s.SaveUndoEntry(entry)
	s.Sync()

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

	forTask, err := s.ListUndoEntriesForTask("task_1")
	if err != nil || len(forTask) != 1 {
		t.Errorf("ListUndoEntriesForTask = %v, %v; want 1 entry", forTask, err)
	}

	s.DeleteUndoEntry("undo_1")
	s.Sync()
	list, err = s.ListUndoEntries()
	if err != nil || len(list) != 0 {
		t.Errorf("expected empty list after delete, got %v", list)
	}
}
