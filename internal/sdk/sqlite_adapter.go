package sdk

import (
	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/agents"
	"github.com/dohr-michael/ozzie-core/internal/queues"
	"github.com/dohr-michael/ozzie-core/internal/storage/sqlitestore"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
	"github.com/dohr-michael/ozzie-core/internal/undo"
)

// SQLiteAdapter wraps a sqlitestore.Store (asynchronous write queue,
// modernc.org/sqlite-backed) as an Adapter. Its Load/List methods are
// synchronous regardless of the write-queue asymmetry, so they project
// directly into the domain/adapter-agnostic shapes Restore understands.
type SQLiteAdapter struct {
	Store *sqlitestore.Store
}

func (a SQLiteAdapter) ListActions() ([]actions.Action, error) {
	return a.Store.ListActions()
}

func (a SQLiteAdapter) ListTasks() ([]tasks.Task, error) {
	return a.Store.ListTasks()
}

func (a SQLiteAdapter) ListQueues() ([]PersistedQueue, error) {
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

func (a SQLiteAdapter) ListAgents() ([]PersistedAgent, error) {
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

func (a SQLiteAdapter) ListUndoEntries() ([]undo.Entry, error) {
	return a.Store.ListUndoEntries()
}

// SaveAction, DeleteAction, and the rest of the write half below all wrap
// sqlitestore methods that have no error return (writes are enqueued onto
// the store's async write goroutine and any failure is logged there) — the
// interface requires an error return, so these always report nil.

func (a SQLiteAdapter) SaveAction(act actions.Action) error {
	a.Store.SaveAction(act)
	return nil
}

func (a SQLiteAdapter) DeleteAction(name string) error {
	a.Store.DeleteAction(name)
	return nil
}

func (a SQLiteAdapter) SaveQueue(q PersistedQueue) error {
	a.Store.SaveQueue(queues.Queue{
		ID: q.ID, Name: q.Name, Concurrency: q.Concurrency,
		MaxSize: q.MaxSize, Overflow: q.Overflow, Paused: q.Paused,
	})
	return nil
}

func (a SQLiteAdapter) DeleteQueue(name string) error {
	a.Store.DeleteQueue(name)
	return nil
}

func (a SQLiteAdapter) SaveAgent(ag PersistedAgent) error {
	a.Store.SaveAgent(agents.Agent{
		ID: ag.ID, Name: ag.Name, Queues: ag.Queues,
		Actions: ag.Actions, Priority: ag.Priority, Enabled: ag.Enabled,
	})
	return nil
}

func (a SQLiteAdapter) DeleteAgent(id string) error {
	a.Store.DeleteAgent(id)
	return nil
}

func (a SQLiteAdapter) SaveTask(t tasks.Task) error {
	a.Store.SaveTask(t)
	return nil
}

func (a SQLiteAdapter) DeleteTask(id string) error {
	a.Store.DeleteTask(id)
	return nil
}

func (a SQLiteAdapter) SaveUndoEntry(e undo.Entry) error {
	a.Store.SaveUndoEntry(e)
	return nil
}

func (a SQLiteAdapter) DeleteUndoEntry(id string) error {
	a.Store.DeleteUndoEntry(id)
	return nil
}
