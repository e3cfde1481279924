package queues

import (
	"testing"

	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

func TestEnqueuePriorityOrder(t *testing.T) {
	q := &Queue{Name: "q", Concurrency: 1, Overflow: OverflowError}

	q.Enqueue(tasks.Task{ID: "T1", Priority: 1})
	q.Enqueue(tasks.Task{ID: "T2", Priority: 3})
	q.Enqueue(tasks.Task{ID: "T3", Priority: 2})

	first, _ := q.Dequeue()
	q.IncrementRunning()
	if first.ID != "T2" {
		t.Fatalf("expected T2 first, got %s", first.ID)
	}
	q.DecrementRunning(true)

	second, _ := q.Dequeue()
	q.IncrementRunning()
	if second.ID != "T3" {
		t.Fatalf("expected T3 second, got %s", second.ID)
	}
	q.DecrementRunning(true)

	third, _ := q.Dequeue()
	if third.ID != "T1" {
		t.Fatalf("expected T1 third, got %s", third.ID)
	}
}

func TestDequeueRespectsConcurrencyCap(t *testing.T) {
	q := &Queue{Name: "q", Concurrency: 2, Overflow: OverflowError}
	for i := 0; i < 3; i++ {
		q.Enqueue(tasks.Task{ID: string(rune('a' + i)), Priority: 1})
	}

	q.IncrementRunning()
	q.IncrementRunning()

	if _, ok := q.Dequeue(); ok {
		t.Fatal("expected dequeue blocked at concurrency cap")
	}
}

func TestDequeuePausedReturnsNothing(t *testing.T) {
	q := &Queue{Name: "q", Concurrency: 1, Overflow: OverflowError}
	q.Enqueue(tasks.Task{ID: "a", Priority: 1})
	q.Pause()

	if _, ok := q.Dequeue(); ok {
		t.Fatal("expected no dequeue while paused")
	}
}

func TestOverflowDrop(t *testing.T) {
	q := &Queue{Name: "q", Concurrency: 1, MaxSize: 2, Overflow: OverflowDrop}
	q.Enqueue(tasks.Task{ID: "a", Priority: 1})
	q.Enqueue(tasks.Task{ID: "b", Priority: 1})

	res := q.Enqueue(tasks.Task{ID: "c", Priority: 1})
	if res.Success || res.Reason != ReasonDropped {
		t.Fatalf("expected dropped overflow, got %+v", res)
	}
}

func TestOverflowError(t *testing.T) {
	q := &Queue{Name: "q", Concurrency: 1, MaxSize: 1, Overflow: OverflowError}
	q.Enqueue(tasks.Task{ID: "a", Priority: 1})

	res := q.Enqueue(tasks.Task{ID: "b", Priority: 1})
	if res.Success || res.Reason != ReasonFull {
		t.Fatalf("expected full overflow, got %+v", res)
	}
}

func TestOverflowDeadletter(t *testing.T) {
	q := &Queue{Name: "q", Concurrency: 1, MaxSize: 1, Overflow: OverflowDeadletter}
	q.Enqueue(tasks.Task{ID: "a", Priority: 1})

	res := q.Enqueue(tasks.Task{ID: "b", Priority: 1})
	if res.Success || res.Reason != ReasonDeadletter {
		t.Fatalf("expected deadletter overflow, got %+v", res)
	}
}

func TestDecrementRunningClampsAtZero(t *testing.T) {
	q := &Queue{Name: "q", Concurrency: 1}
	q.DecrementRunning(true)
	if q.RunningCount() != 0 {
		t.Fatalf("expected clamp at zero, got %d", q.RunningCount())
	}
}

func TestCanDeleteFalseWhileRunning(t *testing.T) {
	q := &Queue{Name: "q", Concurrency: 1}
	q.IncrementRunning()
	if q.CanDelete() {
		t.Fatal("expected CanDelete false while running")
	}
}
