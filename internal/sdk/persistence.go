package sdk

import (
	"context"

	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/agents"
	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/queues"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
	"github.com/dohr-michael/ozzie-core/internal/undo"
)

// Adapter is the full persistence contract an SDK instance may be wired to
// at construction time (spec §6.4): Restore uses the List* half to reseed
// every collection, and the Actions/Agents/Queues/Tasks/Undo facade
// mutators and the dispatcher's task transitions call the Save*/Delete*
// half on every state change so a configured adapter actually observes a
// running session instead of only the state present at construction.
//
// The two reference adapters disagree on write signature (kvstore is
// synchronous and returns an error per call; sqlitestore queues writes
// asynchronously and logs failures itself, returning nothing) — each
// concrete adapter reconciles that at its own boundary so this interface
// can stay uniformly error-returning; see KVAdapter/SQLiteAdapter.
type Adapter interface {
	ListActions() ([]actions.Action, error)
	ListQueues() ([]PersistedQueue, error)
	ListTasks() ([]tasks.Task, error)
	ListAgents() ([]PersistedAgent, error)
	ListUndoEntries() ([]undo.Entry, error)

	SaveAction(actions.Action) error
	DeleteAction(name string) error
	SaveQueue(PersistedQueue) error
	DeleteQueue(name string) error
	SaveAgent(PersistedAgent) error
	DeleteAgent(id string) error
	SaveTask(tasks.Task) error
	DeleteTask(id string) error
	SaveUndoEntry(undo.Entry) error
	DeleteUndoEntry(id string) error
}

// PersistedQueue is the adapter-agnostic projection Restore rebuilds a
// queues.Queue from.
type PersistedQueue struct {
	ID          string
	Name        string
	Concurrency int
	MaxSize     int
	Overflow    queues.Overflow
	Paused      bool
}

// PersistedAgent is the adapter-agnostic projection Restore rebuilds an
// agents.Agent from. Resolve/CanHandle cannot round-trip through storage;
// the caller supplies them via Options.AgentResolvers, keyed by Name.
type PersistedAgent struct {
	ID       string
	Name     string
	Queues   []string
	Actions  []string
	Priority int
	Enabled  bool
}

// Restore reseeds the Action Store, Queue Manager, Task Store, and Agent
// Registry from the wired persistence adapter. Agents with no matching
// entry in Options.AgentResolvers are skipped (logged), since a restored
// agent with no Resolver would panic the first time it was selected.
func (s *SDK) Restore(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	log := corelog.For("sdk")

	persistedActions, err := s.persist.ListActions()
	if err != nil {
		return core.New("sdk.restore", core.KindPersistence, err)
	}
	for _, a := range persistedActions {
		if _, err := s.Actions.store.Create(a); err != nil {
			log.Warn("restore action failed", "name", a.Name, "error", err)
		}
	}

	persistedQueues, err := s.persist.ListQueues()
	if err != nil {
		return core.New("sdk.restore", core.KindPersistence, err)
	}
	for _, q := range persistedQueues {
		restored, err := s.Queues.manager.Create(queues.Queue{
			ID:          q.ID,
			Name:        q.Name,
			Concurrency: q.Concurrency,
			MaxSize:     q.MaxSize,
			Overflow:    q.Overflow,
		})
		if err != nil {
			log.Warn("restore queue failed", "name", q.Name, "error", err)
			continue
		}
		if q.Paused {
			restored.Pause()
		}
	}

	persistedAgents, err := s.persist.ListAgents()
	if err != nil {
		return core.New("sdk.restore", core.KindPersistence, err)
	}
	for _, a := range persistedAgents {
		resolver, ok := s.agentResolvers[a.Name]
		if !ok {
			log.Warn("skipping restored agent with no resolver bound", "name", a.Name)
			continue
		}
		if _, err := s.Agents.registry.Create(agents.Agent{
			ID:       a.ID,
			Name:     a.Name,
			Queues:   a.Queues,
			Actions:  a.Actions,
			Priority: a.Priority,
			Enabled:  a.Enabled,
			Resolve:  resolver,
		}); err != nil {
			log.Warn("restore agent failed", "name", a.Name, "error", err)
		}
	}

	persistedTasks, err := s.persist.ListTasks()
	if err != nil {
		return core.New("sdk.restore", core.KindPersistence, err)
	}
	for _, t := range persistedTasks {
		s.TaskStore.Insert(t)
		if t.Status == tasks.StatusPending || t.Status == tasks.StatusFailed {
			t.Status = tasks.StatusPending
			if _, err := s.dispatcher.Enqueue(t); err != nil {
				log.Warn("re-enqueue restored task failed", "task_id", t.ID, "error", err)
			}
		}
	}

	persistedUndo, err := s.persist.ListUndoEntries()
	if err != nil {
		return core.New("sdk.restore", core.KindPersistence, err)
	}
	if len(persistedUndo) > 0 {
		s.Undo.log.Restore(persistedUndo)
	}

	_ = ctx
	return nil
}
