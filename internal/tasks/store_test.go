package tasks

import (
	"testing"
	"time"
)

func TestStoreInsertGetUpdate(t *testing.T) {
	s := NewStore()
	task := Task{ID: "t1", Queue: "default", Status: StatusPending, Attempt: 1, MaxAttempts: 3, CreatedAt: time.Unix(0, 0)}
	s.Insert(task)

	got, err := s.Get("t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("unexpected status: %v", got.Status)
	}

	got.Status = StatusRunning
	if _, err := s.Update(*got); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, _ := s.Get("t1")
	if after.Status != StatusRunning {
		t.Fatalf("update not applied: %v", after.Status)
	}
}

func TestStoreListByQueue(t *testing.T) {
	s := NewStore()
	s.Insert(Task{ID: "a", Queue: "q1", CreatedAt: time.Unix(1, 0)})
	s.Insert(Task{ID: "b", Queue: "q2", CreatedAt: time.Unix(2, 0)})
	s.Insert(Task{ID: "c", Queue: "q1", CreatedAt: time.Unix(3, 0)})

	q1 := s.List("q1")
	if len(q1) != 2 {
		t.Fatalf("expected 2 tasks in q1, got %d", len(q1))
	}
	all := s.List("")
	if len(all) != 3 {
		t.Fatalf("expected 3 tasks total, got %d", len(all))
	}
}

func TestPrepareRetryExhausted(t *testing.T) {
	s := NewStore()
	s.Insert(Task{ID: "a", Attempt: 3, MaxAttempts: 3, Status: StatusFailed})

	_, ok := s.PrepareRetry("a")
	if ok {
		t.Fatal("expected retries exhausted")
	}
}

func TestPrepareRetryIncrementsAttempt(t *testing.T) {
	s := NewStore()
	s.Insert(Task{ID: "a", Attempt: 1, MaxAttempts: 3, Status: StatusFailed})

	retried, ok := s.PrepareRetry("a")
	if !ok {
		t.Fatal("expected retry allowed")
	}
	if retried.Attempt != 2 || retried.Status != StatusPending {
		t.Fatalf("unexpected retry state: %+v", retried)
	}
}

func TestCancelRejectsTerminal(t *testing.T) {
	s := NewStore()
	s.Insert(Task{ID: "a", Status: StatusCompleted})

	if _, err := s.Cancel("a"); err == nil {
		t.Fatal("expected cancel of terminal task to fail")
	}
}

func TestCancelPendingTask(t *testing.T) {
	s := NewStore()
	s.Insert(Task{ID: "a", Status: StatusPending})

	cancelled, err := s.Cancel("a")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("unexpected status: %v", cancelled.Status)
	}
}
