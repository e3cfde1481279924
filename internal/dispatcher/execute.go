package dispatcher

import (
	"context"
	"time"

	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/events"
	"github.com/dohr-michael/ozzie-core/internal/ids"
	"github.com/dohr-michael/ozzie-core/internal/queues"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
	"github.com/dohr-michael/ozzie-core/internal/undo"
)

// schedule drains as many ready tasks as the queue's concurrency allows
// and starts each on its own goroutine. Dequeue itself enforces pause and
// the concurrency cap, so this loop simply drains until Dequeue declines.
func (d *Dispatcher) schedule(queueName string) {
	q, err := d.queues.Read(queueName)
	if err != nil {
		return
	}

	for {
		task, ok := q.DequeueMatching(d.dependenciesResolved)
		if !ok {
			return
		}

		if stored, err := d.store.Get(task.ID); err == nil && stored.Status.IsTerminal() {
			continue
		}

		q.IncrementRunning()
		d.wg.Add(1)
		go d.runTask(q, task)
	}
}

// dependenciesResolved reports whether every task in DependsOn has reached
// tasks.StatusCompleted. A dependency the store has no record of is treated
// as unresolved rather than satisfied.
func (d *Dispatcher) dependenciesResolved(task tasks.Task) bool {
	for _, depID := range task.DependsOn {
		dep, err := d.store.Get(depID)
		if err != nil || dep.Status != tasks.StatusCompleted {
			return false
		}
	}
	return true
}

func (d *Dispatcher) runTask(q interface {
	DecrementRunning(bool)
}, task tasks.Task) {
	defer d.wg.Done()

	succeeded := d.execute(task)
	q.DecrementRunning(succeeded)
	d.wake(task.Queue)
}

// execute runs a single task through started → agent selection →
// beforeExecute → resolve → completed/failed/retry. Returns true if the
// task reached a successful terminal state.
func (d *Dispatcher) execute(task tasks.Task) bool {
	now := time.Now()
	task.Status = tasks.StatusRunning
	task.StartedAt = &now
	d.store.Update(task)
	d.persistTask(task)
	d.publish(events.NewTypedEvent(events.SourceDispatcher, events.StartedPayload{
		TaskID: task.ID, Queue: task.Queue, Attempt: task.Attempt,
	}))

	candidates := d.agents.FindForTask(task)
	if len(candidates) == 0 {
		d.fail(task, errNoAgent, "select_agent", false)
		return false
	}
	agent := candidates[0]
	task.AgentID = agent.ID

	appCtx := d.appCtxMgr.Get()
	if !d.hookMgr.BeforeExecute(task, agent.ID, appCtx) {
		task.Status = tasks.StatusCancelled
		d.store.Update(task)
		d.persistTask(task)
		d.publish(events.NewTypedEvent(events.SourceDispatcher, events.CancelledPayload{TaskID: task.ID, Queue: task.Queue}))
		return false
	}

	taskCtx, cancel := context.WithCancel(d.ctx)
	d.mu.Lock()
	d.running[task.ID] = &runningTask{cancel: cancel}
	d.mu.Unlock()
	defer func() {
		cancel()
		d.mu.Lock()
		delete(d.running, task.ID)
		d.mu.Unlock()
	}()

	result, err := agent.Resolve(taskCtx, task, appCtx)
	if err != nil {
		return d.handleFailure(task, agent.ID, err)
	}

	return d.complete(task, result)
}

func (d *Dispatcher) complete(task tasks.Task, result tasks.Result) bool {
	now := time.Now()
	task.Status = tasks.StatusCompleted
	task.CompletedAt = &now
	task.Result = &result
	d.store.Update(task)
	d.persistTask(task)

	d.hookMgr.AfterExecute(task, result)

	if result.Undo != nil && d.undoLog != nil {
		d.undoLog.Push(buildUndoEntry(task, result))
	}

	d.publish(events.NewTypedEvent(events.SourceDispatcher, events.CompletedPayload{
		TaskID: task.ID, Queue: task.Queue, AgentID: task.AgentID, HasUndo: result.Undo != nil,
		Duration: now.Sub(derefOr(task.StartedAt, now)),
	}))
	return true
}

func buildUndoEntry(task tasks.Task, result tasks.Result) undo.Entry {
	return undo.Entry{
		ID:        ids.New("undo"),
		TaskID:    task.ID,
		Action:    task.Action,
		Undo:      result.Undo,
		Timestamp: time.Now(),
	}
}

func (d *Dispatcher) handleFailure(task tasks.Task, agentID string, resolveErr error) bool {
	d.hookMgr.OnError(task, resolveErr, "execute")
	return d.fail(task, core.New("dispatcher.execute", core.KindAgentError, resolveErr), "execute", true)
}

// fail classifies a failure, consults onRetry, and transitions the task to
// retry/failed/deadletter accordingly. retryable gates whether onRetry is
// consulted at all (NoAgent is never retried).
func (d *Dispatcher) fail(task tasks.Task, failErr error, stage string, retryable bool) bool {
	task.LastError = failErr.Error()
	d.store.AppendCheckpoint(task.ID, tasks.Checkpoint{Attempt: task.Attempt, At: time.Now(), Note: failErr.Error()})

	if !retryable {
		return d.terminalFail(task, failErr)
	}

	decision := d.hookMgr.OnRetry(task, failErr, task.Attempt)
	if !decision.Retry {
		return d.terminalFail(task, failErr)
	}

	delay := decision.Delay
	if delay <= 0 {
		delay = d.backoff.delay(task.Attempt)
	}

	task.Status = tasks.StatusFailed
	d.store.Update(task)
	d.persistTask(task)
	d.publish(events.NewTypedEvent(events.SourceDispatcher, events.FailedPayload{
		TaskID: task.ID, Queue: task.Queue, Error: failErr.Error(),
	}))

	retried, ok := d.store.PrepareRetry(task.ID)
	if !ok {
		return d.terminalFail(task, failErr)
	}
	d.persistTask(*retried)

	d.publish(events.NewTypedEvent(events.SourceDispatcher, events.RetryPayload{
		TaskID: task.ID, Queue: task.Queue, Attempt: retried.Attempt, Error: failErr.Error(), Delay: delay,
	}))

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-d.ctx.Done():
			return
		}

		q, err := d.queues.Read(retried.Queue)
		if err != nil {
			return
		}
		res := q.Enqueue(*retried)
		if res.Success {
			d.publish(events.NewTypedEvent(events.SourceQueue, events.QueuedPayload{
				TaskID: retried.ID, Queue: retried.Queue, Action: retried.Action,
				Priority: retried.Priority, Attempt: retried.Attempt,
			}))
			d.wake(retried.Queue)
		}
	}()

	return false
}

func (d *Dispatcher) terminalFail(task tasks.Task, failErr error) bool {
	now := time.Now()
	task.CompletedAt = &now

	q, qErr := d.queues.Read(task.Queue)
	deadletter := core.IsKind(failErr, core.KindNoAgent) == false && qErr == nil && q.Overflow == queues.OverflowDeadletter

	if deadletter {
		task.Status = tasks.StatusDeadletter
		d.store.Update(task)
		d.persistTask(task)
		d.publish(events.NewTypedEvent(events.SourceDispatcher, events.DeadletterPayload{
			TaskID: task.ID, Queue: task.Queue, Reason: failErr.Error(),
		}))
		return false
	}

	task.Status = tasks.StatusFailed
	d.store.Update(task)
	d.persistTask(task)
	d.publish(events.NewTypedEvent(events.SourceDispatcher, events.FailedPayload{
		TaskID: task.ID, Queue: task.Queue, Error: failErr.Error(),
	}))
	return false
}

func derefOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil {
		return fallback
	}
	return *t
}
