package sdk

import (
	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/agents"
	"github.com/dohr-michael/ozzie-core/internal/queues"
	"github.com/dohr-michael/ozzie-core/internal/storage/kvstore"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
	"github.com/dohr-michael/ozzie-core/internal/undo"
)

// KVAdapter wraps a kvstore.Store (synchronous, goleveldb-backed) as an
// Adapter, projecting its Save/Delete-return-error record types into the
// domain/adapter-agnostic shapes Restore understands.
type KVAdapter struct {
	Store *kvstore.Store
}

func (a KVAdapter) ListActions() ([]actions.Action, error) {
	return a.Store.ListActions()
}

func (a KVAdapter) ListTasks() ([]tasks.Task, error) {
	return a.Store.ListTasks()
}

func (a KVAdapter) ListQueues() ([]PersistedQueue, error) {
	records, err := a.Store.ListQueues()
	if err != nil {
		return nil, err
	}
	out := make([]PersistedQueue, len(records))
	for i, r := range records {
		out[i] = PersistedQueue{
			ID: r.ID, Name: r.Name, Concurrency: r.Concurrency,
			MaxSize: r.MaxSize, Overflow: r.Overflow, Paused: r.Paused,
		}
	}
	return out, nil
}

func (a KVAdapter) ListAgents() ([]PersistedAgent, error) {
	records, err := a.Store.ListAgents()
	if err != nil {
		return nil, err
	}
	out := make([]PersistedAgent, len(records))
	for i, r := range records {
		out[i] = PersistedAgent{
			ID: r.ID, Name: r.Name, Queues: r.Queues,
			Actions: r.Actions, Priority: r.Priority, Enabled: r.Enabled,
		}
	}
	return out, nil
}

func (a KVAdapter) ListUndoEntries() ([]undo.Entry, error) {
	return a.Store.ListUndoEntries()
}

func (a KVAdapter) SaveAction(act actions.Action) error {
	return a.Store.SaveAction(act)
}

func (a KVAdapter) DeleteAction(name string) error {
	return a.Store.DeleteAction(name)
}

func (a KVAdapter) SaveQueue(q PersistedQueue) error {
	return a.Store.SaveQueue(queues.Queue{
		ID: q.ID, Name: q.Name, Concurrency: q.Concurrency,
		MaxSize: q.MaxSize, Overflow: q.Overflow, Paused: q.Paused,
	})
}

func (a KVAdapter) DeleteQueue(name string) error {
	return a.Store.DeleteQueue(name)
}

func (a KVAdapter) SaveAgent(ag PersistedAgent) error {
	return a.Store.SaveAgent(agents.Agent{
		ID: ag.ID, Name: ag.Name, Queues: ag.Queues,
		Actions: ag.Actions, Priority: ag.Priority, Enabled: ag.Enabled,
	})
}

func (a KVAdapter) DeleteAgent(id string) error {
	return a.Store.DeleteAgent(id)
}

func (a KVAdapter) SaveTask(t tasks.Task) error {
	return a.Store.SaveTask(t)
}

func (a KVAdapter) DeleteTask(id string) error {
	return a.Store.DeleteTask(id)
}

func (a KVAdapter) SaveUndoEntry(e undo.Entry) error {
	return a.Store.SaveUndoEntry(e)
}

func (a KVAdapter) DeleteUndoEntry(id string) error {
	return a.Store.DeleteUndoEntry(id)
}
