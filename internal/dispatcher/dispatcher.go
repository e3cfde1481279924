// Package dispatcher implements the scheduler: the cooperative,
// single-threaded-per-queue event loop that picks ready tasks, assigns
// agents, executes them, manages retries and dead-lettering, and emits
// lifecycle events. Grounded on the teacher's actors.ActorPool: a
// wake-channel-driven schedule() pass plus an idle poll ticker, one
// scheduling loop, single-mutex-guarded running state, and per-task
// context.Context cancellation (actors.startTask).
package dispatcher

import (
	"context"
	"sync"
	"time"

	"github.com/dohr-michael/ozzie-core/internal/agents"
	"github.com/dohr-michael/ozzie-core/internal/appctx"
	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/events"
	"github.com/dohr-michael/ozzie-core/internal/hooks"
	"github.com/dohr-michael/ozzie-core/internal/ids"
	"github.com/dohr-michael/ozzie-core/internal/queues"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
	"github.com/dohr-michael/ozzie-core/internal/undo"
)

// TaskPersister is the write-through hook an SDK instance wires so task
// status transitions survive a restart (spec §6.4). Defined here rather
// than taken as the sdk package's Adapter type directly to avoid an
// import cycle (sdk imports dispatcher); sdk.Adapter satisfies this
// interface structurally.
type TaskPersister interface {
	SaveTask(tasks.Task) error
}

// idlePoll is the default polling interval when a queue receives no wake
// signal, matching the dispatch cycle's "polling tick (default 50ms when
// idle)" requirement.
const idlePoll = 50 * time.Millisecond

// BackoffConfig controls the default exponential retry delay.
type BackoffConfig struct {
	Base time.Duration
	Cap  time.Duration
}

func (b BackoffConfig) delay(attempt int) time.Duration {
	base := b.Base
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	cap := b.Cap
	if cap <= 0 {
		cap = 30 * time.Second
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= cap {
			return cap
		}
	}
	return d
}

// runningTask tracks an in-flight agent.Resolve invocation so Cancel can
// signal it.
type runningTask struct {
	cancel context.CancelFunc
}

// Dispatcher wires the queue manager, agent registry, task store, hook
// manager, undo log, and event bus, and runs one scheduling loop per
// queue.
type Dispatcher struct {
	queues    *queues.Manager
	agents    *agents.Registry
	store     *tasks.Store
	hookMgr   *hooks.Manager
	undoLog   *undo.Log
	bus       *events.Bus
	appCtxMgr *appctx.Manager
	backoff   BackoffConfig
	persist   TaskPersister

	mu      sync.Mutex
	wakers  map[string]chan struct{}
	started map[string]bool
	running map[string]*runningTask

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config bundles the Dispatcher's dependencies.
type Config struct {
	Queues  *queues.Manager
	Agents  *agents.Registry
	Store   *tasks.Store
	Hooks   *hooks.Manager
	UndoLog *undo.Log
	Bus     *events.Bus
	AppCtx  *appctx.Manager
	Persist TaskPersister
	Backoff BackoffConfig
}

// New constructs a Dispatcher from Config.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		queues:    cfg.Queues,
		agents:    cfg.Agents,
		store:     cfg.Store,
		hookMgr:   cfg.Hooks,
		undoLog:   cfg.UndoLog,
		bus:       cfg.Bus,
		appCtxMgr: cfg.AppCtx,
		persist:   cfg.Persist,
		backoff:   cfg.Backoff,
		wakers:    make(map[string]chan struct{}),
		started:   make(map[string]bool),
		running:   make(map[string]*runningTask),
	}
}

// persistTask writes t through to the wired persistence adapter, if any.
func (d *Dispatcher) persistTask(t tasks.Task) {
	if d.persist == nil {
		return
	}
	if err := d.persist.SaveTask(t); err != nil {
		corelog.For("dispatcher").Warn("persist task failed", "task_id", t.ID, "error", err)
	}
}

// Start launches the dispatcher's background context; per-queue loops are
// started lazily on first Enqueue/wake.
func (d *Dispatcher) Start() {
	d.ctx, d.cancel = context.WithCancel(context.Background())
}

// Stop cancels all per-queue loops and waits for them to exit.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
}

// Enqueue admits a task into its target queue and wakes that queue's
// dispatch loop. Returns the queue overflow result when the task was not
// admitted.
func (d *Dispatcher) Enqueue(t tasks.Task) (queues.EnqueueResult, error) {
	q, err := d.queues.Read(t.Queue)
	if err != nil {
		return queues.EnqueueResult{}, err
	}

	if t.ID == "" {
		t.ID = ids.New("task")
	}
	if t.Status == "" {
		t.Status = tasks.StatusPending
	}
	if t.Attempt == 0 {
		t.Attempt = 1
	}

	res := q.Enqueue(t)
	if !res.Success {
		if res.Reason == queues.ReasonDeadletter {
			t.Status = tasks.StatusDeadletter
			d.store.Insert(t)
			d.persistTask(t)
			d.publish(events.NewTypedEvent(events.SourceDispatcher, events.DeadletterPayload{
				TaskID: t.ID, Queue: t.Queue, Reason: "queue overflow",
			}))
		}
		return res, nil
	}

	d.store.Insert(t)
	d.persistTask(t)
	d.publish(events.NewTypedEvent(events.SourceQueue, events.QueuedPayload{
		TaskID: t.ID, Queue: t.Queue, Action: t.Action, Priority: t.Priority, Attempt: t.Attempt,
	}))

	d.ensureLoop(t.Queue)
	d.wake(t.Queue)
	return res, nil
}

func (d *Dispatcher) publish(e events.Event) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}

// ensureLoop starts a queue's dispatch loop the first time it is needed.
func (d *Dispatcher) ensureLoop(queue string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started[queue] {
		return
	}
	d.started[queue] = true
	d.wakers[queue] = make(chan struct{}, 1)

	d.wg.Add(1)
	go d.loop(queue)
}

func (d *Dispatcher) wake(queue string) {
	d.mu.Lock()
	ch := d.wakers[queue]
	d.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) loop(queue string) {
	defer d.wg.Done()

	ticker := time.NewTicker(idlePoll)
	defer ticker.Stop()

	d.mu.Lock()
	ch := d.wakers[queue]
	d.mu.Unlock()

	for {
		d.schedule(queue)

		select {
		case <-d.ctx.Done():
			return
		case <-ch:
		case <-ticker.C:
		}
	}
}

// CancelTask cancels a pending or running task. For a pending task only the
// task store record is transitioned; the queue's pending slice keeps its
// copy until the loop dequeues it, and schedule skips it then because the
// stored status is terminal. Running tasks are signalled via their context.
func (d *Dispatcher) CancelTask(id string) error {
	t, err := d.store.Cancel(id)
	if err != nil {
		return err
	}
	d.persistTask(*t)

	d.mu.Lock()
	rt := d.running[id]
	d.mu.Unlock()
	if rt != nil {
		rt.cancel()
	}

	d.publish(events.NewTypedEvent(events.SourceDispatcher, events.CancelledPayload{TaskID: t.ID, Queue: t.Queue}))
	return nil
}

var errNoAgent = core.New("dispatcher.selectAgent", core.KindNoAgent, nil)
