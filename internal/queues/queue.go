// Package queues implements the Queue Manager: named priority-ordered
// pending lists with a concurrency cap, overflow policy, and pause/resume
// control. Grounded on the teacher's actors.ActorPool mutex-guarded
// scheduling state, narrowed to the queue's own bookkeeping (the
// dispatcher owns actual execution).
package queues

import (
	"sync"

	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

// Overflow names what happens when Enqueue is called on a full queue.
type Overflow string

const (
	OverflowDrop       Overflow = "drop"
	OverflowError      Overflow = "error"
	OverflowDeadletter Overflow = "deadletter"
)

// Stats is the snapshot returned by GetStats.
type Stats struct {
	Pending   int
	Running   int
	Completed int
	Failed    int
}

// EnqueueReason explains a failed Enqueue.
type EnqueueReason string

const (
	ReasonDropped    EnqueueReason = "dropped"
	ReasonFull       EnqueueReason = "full"
	ReasonDeadletter EnqueueReason = "deadletter"
)

// EnqueueResult is the outcome of Enqueue.
type EnqueueResult struct {
	Success bool
	Reason  EnqueueReason
}

// Queue is a named priority-ordered pool of pending tasks.
type Queue struct {
	mu sync.Mutex

	ID           string
	Name         string
	Concurrency  int
	MaxSize      int // 0 means unbounded
	Overflow     Overflow
	Paused       bool
	runningCount int
	pending      []tasks.Task
	completed    int
	failed       int
}

// CanAcceptRun reports whether the queue may start another task: not
// paused and runningCount < Concurrency.
func (q *Queue) CanAcceptRun() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.Paused && q.runningCount < q.Concurrency
}

// Enqueue inserts t respecting priority order (higher priority first; FIFO
// among equal priorities), or applies the overflow policy if the queue is
// full.
func (q *Queue) Enqueue(t tasks.Task) EnqueueResult {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.MaxSize > 0 && len(q.pending) >= q.MaxSize {
		switch q.Overflow {
		case OverflowDrop:
			return EnqueueResult{Success: false, Reason: ReasonDropped}
		case OverflowDeadletter:
			return EnqueueResult{Success: false, Reason: ReasonDeadletter}
		default:
			return EnqueueResult{Success: false, Reason: ReasonFull}
		}
	}

	idx := len(q.pending)
	for i, existing := range q.pending {
		if existing.Priority < t.Priority {
			idx = i
			break
		}
	}
	q.pending = append(q.pending, tasks.Task{})
	copy(q.pending[idx+1:], q.pending[idx:])
	q.pending[idx] = t

	return EnqueueResult{Success: true}
}

// Dequeue returns the first pending task if the queue is not paused and
// has run capacity, else (_, false).
func (q *Queue) Dequeue() (tasks.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.Paused || q.runningCount >= q.Concurrency || len(q.pending) == 0 {
		return tasks.Task{}, false
	}

	t := q.pending[0]
	q.pending = q.pending[1:]
	return t, true
}

// DequeueMatching returns the first pending task for which pred returns
// true, removing it while leaving tasks ahead of it in place. Used by the
// dispatcher to skip over tasks whose dependencies haven't completed yet
// without losing priority order for the rest of the queue.
func (q *Queue) DequeueMatching(pred func(tasks.Task) bool) (tasks.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.Paused || q.runningCount >= q.Concurrency {
		return tasks.Task{}, false
	}

	for i, t := range q.pending {
		if !pred(t) {
			continue
		}
		q.pending = append(q.pending[:i:i], q.pending[i+1:]...)
		return t, true
	}
	return tasks.Task{}, false
}

// Pause blocks further dequeue; running tasks are untouched.
func (q *Queue) Pause() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Paused = true
}

// Resume unblocks dequeue.
func (q *Queue) Resume() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Paused = false
}

// Clear drops all pending tasks; running tasks are untouched.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
}

// GetStats returns a point-in-time snapshot of the queue's counters.
func (q *Queue) GetStats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Pending:   len(q.pending),
		Running:   q.runningCount,
		Completed: q.completed,
		Failed:    q.failed,
	}
}

// IncrementRunning bumps the running counter.
func (q *Queue) IncrementRunning() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.runningCount++
}

// DecrementRunning drops the running counter, clamped at zero, and updates
// the completed/failed tallies.
func (q *Queue) DecrementRunning(succeeded bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.runningCount > 0 {
		q.runningCount--
	}
	if succeeded {
		q.completed++
	} else {
		q.failed++
	}
}

// RunningCount returns the current running count.
func (q *Queue) RunningCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.runningCount
}

// CanDelete reports whether the queue has no running tasks and may be
// safely deleted.
func (q *Queue) CanDelete() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.runningCount == 0
}

var errQueueNotDeletable = core.New("queues.delete", core.KindValidation, nil)

// ErrNotDeletable is returned by Manager.Delete when a queue still has
// running tasks.
var ErrNotDeletable = errQueueNotDeletable
