package dispatcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dohr-michael/ozzie-core/internal/agents"
	"github.com/dohr-michael/ozzie-core/internal/appctx"
	"github.com/dohr-michael/ozzie-core/internal/events"
	"github.com/dohr-michael/ozzie-core/internal/hooks"
	"github.com/dohr-michael/ozzie-core/internal/queues"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
	"github.com/dohr-michael/ozzie-core/internal/undo"
)

type harness struct {
	queues *queues.Manager
	agents *agents.Registry
	store  *tasks.Store
	bus    *events.Bus
	disp   *Dispatcher
}

func newHarness(t *testing.T, h hooks.Hooks) *harness {
	t.Helper()

	bus := events.NewBus(64)
	qm := queues.NewManager(bus)
	reg := agents.NewRegistry()
	store := tasks.NewStore()
	undoLog := undo.NewLog(10, bus, nil)
	appCtxMgr := appctx.NewManager()

	disp := New(Config{
		Queues:  qm,
		Agents:  reg,
		Store:   store,
		Hooks:   hooks.NewManager(h),
		UndoLog: undoLog,
		Bus:     bus,
		AppCtx:  appCtxMgr,
		Backoff: BackoffConfig{Base: 5 * time.Millisecond, Cap: 50 * time.Millisecond},
	})
	disp.Start()
	t.Cleanup(disp.Stop)

	return &harness{queues: qm, agents: reg, store: store, bus: bus, disp: disp}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestDispatcherPriorityOrderWithinQueue(t *testing.T) {
	h := newHarness(t, hooks.Hooks{})
	// Create paused so all three enqueues land before the loop dequeues
	// anything, making the resulting dispatch order depend only on
	// priority rather than a race against the scheduling goroutine.
	h.queues.Create(queues.Queue{Name: "q", Concurrency: 1, Overflow: queues.OverflowError, Paused: true})

	var mu sync.Mutex
	var order []string
	done := make(chan struct{})

	h.agents.Create(agents.Agent{
		ID: "a1", Name: "a1", Queues: []string{"q"}, Enabled: true,
		Resolve: func(ctx context.Context, task tasks.Task, appCtx appctx.AppContext) (tasks.Result, error) {
			mu.Lock()
			order = append(order, task.ID)
			n := len(order)
			mu.Unlock()
			if n == 3 {
				close(done)
			}
			return tasks.Result{}, nil
		},
	})

	h.disp.Enqueue(tasks.Task{ID: "low", Queue: "q", Priority: 1, MaxAttempts: 1})
	h.disp.Enqueue(tasks.Task{ID: "high", Queue: "q", Priority: 5, MaxAttempts: 1})
	h.disp.Enqueue(tasks.Task{ID: "mid", Queue: "q", Priority: 3, MaxAttempts: 1})

	if err := h.queues.Resume("q"); err != nil {
		t.Fatalf("resume: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for all three tasks")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != "high" || order[1] != "mid" || order[2] != "low" {
		t.Fatalf("expected dispatch order [high mid low], got %v", order)
	}
}

func TestDispatcherConcurrencyCap(t *testing.T) {
	h := newHarness(t, hooks.Hooks{})
	h.queues.Create(queues.Queue{Name: "q", Concurrency: 2, Overflow: queues.OverflowError})

	var mu sync.Mutex
	running, maxObserved := 0, 0
	release := make(chan struct{})

	h.agents.Create(agents.Agent{
		ID: "a1", Name: "a1", Queues: []string{"q"}, Enabled: true,
		Resolve: func(ctx context.Context, task tasks.Task, appCtx appctx.AppContext) (tasks.Result, error) {
			mu.Lock()
			running++
			if running > maxObserved {
				maxObserved = running
			}
			mu.Unlock()

			<-release

			mu.Lock()
			running--
			mu.Unlock()
			return tasks.Result{}, nil
		},
	})

	for i := 0; i < 3; i++ {
		h.disp.Enqueue(tasks.Task{ID: string(rune('A' + i)), Queue: "q", MaxAttempts: 1})
	}

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return running == 2
	})
	close(release)

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return running == 0
	})

	mu.Lock()
	defer mu.Unlock()
	if maxObserved != 2 {
		t.Fatalf("expected concurrency cap of 2, observed max %d", maxObserved)
	}
}

func TestDispatcherOverflowDrop(t *testing.T) {
	h := newHarness(t, hooks.Hooks{})
	h.queues.Create(queues.Queue{Name: "q", Concurrency: 1, MaxSize: 1, Overflow: queues.OverflowDrop, Paused: true})

	res, err := h.disp.Enqueue(tasks.Task{ID: "t1", Queue: "q", MaxAttempts: 1})
	if err != nil || !res.Success {
		t.Fatalf("expected first enqueue to succeed, got %+v %v", res, err)
	}
	res2, err := h.disp.Enqueue(tasks.Task{ID: "t2", Queue: "q", MaxAttempts: 1})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if res2.Success || res2.Reason != queues.ReasonDropped {
		t.Fatalf("expected dropped overflow, got %+v", res2)
	}
}

func TestDispatcherOverflowError(t *testing.T) {
	h := newHarness(t, hooks.Hooks{})
	h.queues.Create(queues.Queue{Name: "q", Concurrency: 1, MaxSize: 1, Overflow: queues.OverflowError, Paused: true})

	h.disp.Enqueue(tasks.Task{ID: "t1", Queue: "q", MaxAttempts: 1})
	res2, err := h.disp.Enqueue(tasks.Task{ID: "t2", Queue: "q", MaxAttempts: 1})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if res2.Success || res2.Reason != queues.ReasonFull {
		t.Fatalf("expected full overflow, got %+v", res2)
	}
}

func TestDispatcherOverflowDeadletter(t *testing.T) {
	h := newHarness(t, hooks.Hooks{})
	h.queues.Create(queues.Queue{Name: "q", Concurrency: 1, MaxSize: 1, Overflow: queues.OverflowDeadletter, Paused: true})

	ch, unsub := h.bus.SubscribeChan(4, events.EventDeadletter)
	defer unsub()

	h.disp.Enqueue(tasks.Task{ID: "t1", Queue: "q", MaxAttempts: 1})
	res2, err := h.disp.Enqueue(tasks.Task{ID: "t2", Queue: "q", MaxAttempts: 1})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if res2.Success || res2.Reason != queues.ReasonDeadletter {
		t.Fatalf("expected deadletter overflow, got %+v", res2)
	}

	select {
	case e := <-ch:
		payload, ok := events.ExtractPayload[events.DeadletterPayload](e)
		if !ok || payload.TaskID != "t2" {
			t.Fatalf("unexpected deadletter payload: %+v", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a deadletter event")
	}

	stored, err := h.store.Get("t2")
	if err != nil || stored.Status != tasks.StatusDeadletter {
		t.Fatalf("expected t2 stored as deadletter, got %+v %v", stored, err)
	}
}

func TestDispatcherRetryThenDeadletter(t *testing.T) {
	h := newHarness(t, hooks.Hooks{})
	h.queues.Create(queues.Queue{Name: "q", Concurrency: 1, Overflow: queues.OverflowDeadletter})

	var mu sync.Mutex
	attempts := 0

	h.agents.Create(agents.Agent{
		ID: "a1", Name: "a1", Queues: []string{"q"}, Enabled: true,
		Resolve: func(ctx context.Context, task tasks.Task, appCtx appctx.AppContext) (tasks.Result, error) {
			mu.Lock()
			attempts++
			mu.Unlock()
			return tasks.Result{}, errAlwaysFails
		},
	})

	ch, unsub := h.bus.SubscribeChan(8, events.EventDeadletter)
	defer unsub()

	h.disp.Enqueue(tasks.Task{ID: "t1", Queue: "q", MaxAttempts: 2})

	select {
	case e := <-ch:
		payload, ok := events.ExtractPayload[events.DeadletterPayload](e)
		if !ok || payload.TaskID != "t1" {
			t.Fatalf("unexpected deadletter payload: %+v", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected task to eventually dead-letter")
	}

	mu.Lock()
	defer mu.Unlock()
	if attempts != 2 {
		t.Fatalf("expected exactly 2 attempts (MaxAttempts), got %d", attempts)
	}
}

func TestDispatcherUndoRoundTrip(t *testing.T) {
	h := newHarness(t, hooks.Hooks{})
	h.queues.Create(queues.Queue{Name: "q", Concurrency: 1, Overflow: queues.OverflowError})

	undoCalled := make(chan struct{})

	h.agents.Create(agents.Agent{
		ID: "a1", Name: "a1", Queues: []string{"q"}, Enabled: true,
		Resolve: func(ctx context.Context, task tasks.Task, appCtx appctx.AppContext) (tasks.Result, error) {
			return tasks.Result{Undo: func() error {
				close(undoCalled)
				return nil
			}}, nil
		},
	})

	ch, unsub := h.bus.SubscribeChan(4, events.EventCompleted)
	defer unsub()

	h.disp.Enqueue(tasks.Task{ID: "t1", Queue: "q", MaxAttempts: 1})

	select {
	case e := <-ch:
		payload, ok := events.ExtractPayload[events.CompletedPayload](e)
		if !ok || !payload.HasUndo {
			t.Fatalf("expected completed event with HasUndo, got %+v", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a completed event")
	}

	stored, err := h.store.Get("t1")
	if err != nil || stored.Result == nil || stored.Result.Undo == nil {
		t.Fatalf("expected stored task to carry its undo thunk, got %+v %v", stored, err)
	}
	if err := stored.Result.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}

	select {
	case <-undoCalled:
	case <-time.After(time.Second):
		t.Fatal("expected invoking the stored undo thunk to run the captured closure")
	}
}

type staticErr string

func (e staticErr) Error() string { return string(e) }

const errAlwaysFails = staticErr("always fails")

type fakeTaskPersister struct {
	mu    sync.Mutex
	saved map[string]tasks.Task
}

func newFakeTaskPersister() *fakeTaskPersister {
	return &fakeTaskPersister{saved: make(map[string]tasks.Task)}
}

func (f *fakeTaskPersister) SaveTask(t tasks.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[t.ID] = t
	return nil
}

func (f *fakeTaskPersister) get(id string) (tasks.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.saved[id]
	return t, ok
}

func TestDispatcherWritesThroughToPersister(t *testing.T) {
	bus := events.NewBus(64)
	qm := queues.NewManager(bus)
	reg := agents.NewRegistry()
	store := tasks.NewStore()
	undoLog := undo.NewLog(10, bus, nil)
	appCtxMgr := appctx.NewManager()
	persist := newFakeTaskPersister()

	disp := New(Config{
		Queues:  qm,
		Agents:  reg,
		Store:   store,
		Hooks:   hooks.NewManager(hooks.Hooks{}),
		UndoLog: undoLog,
		Bus:     bus,
		AppCtx:  appCtxMgr,
		Persist: persist,
		Backoff: BackoffConfig{Base: 5 * time.Millisecond, Cap: 50 * time.Millisecond},
	})
	disp.Start()
	t.Cleanup(disp.Stop)

	qm.Create(queues.Queue{Name: "q", Concurrency: 1, Overflow: queues.OverflowError})
	reg.Create(agents.Agent{
		ID: "a1", Name: "a1", Queues: []string{"q"}, Enabled: true,
		Resolve: func(ctx context.Context, task tasks.Task, appCtx appctx.AppContext) (tasks.Result, error) {
			return tasks.Result{Value: "ok"}, nil
		},
	})

	ch, unsub := bus.SubscribeChan(4, events.EventCompleted)
	defer unsub()

	disp.Enqueue(tasks.Task{ID: "t1", Queue: "q", MaxAttempts: 1})

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a completed event")
	}

	saved, ok := persist.get("t1")
	if !ok {
		t.Fatal("expected the task to have been written through to the persister")
	}
	if saved.Status != tasks.StatusCompleted {
		t.Fatalf("expected last persisted status to be completed, got %s", saved.Status)
	}
}
