package sdk

import (
	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/queues"
)

// QueuesAPI exposes the Queue Manager operations (spec §4.3/§4.10). When a
// persistence adapter is wired, create/delete/pause/resume are written
// through so a restored queue comes back with the same paused state
// (spec §6.4). Clear only drops in-memory pending tasks and does not
// change the persisted queue record itself, so it has no write-through.
type QueuesAPI struct {
	manager *queues.Manager
	persist Adapter
}

// Create registers a new named queue.
func (q *QueuesAPI) Create(queue queues.Queue) (*queues.Queue, error) {
	created, err := q.manager.Create(queue)
	if err != nil {
		return nil, err
	}
	q.persistSave(created)
	return created, nil
}

// Read returns the named queue.
func (q *QueuesAPI) Read(name string) (*queues.Queue, error) {
	return q.manager.Read(name)
}

// Delete removes the named queue. Rejects deletion while it has running
// tasks.
func (q *QueuesAPI) Delete(name string) error {
	if err := q.manager.Delete(name); err != nil {
		return err
	}
	q.persistDelete(name)
	return nil
}

// List returns all queues.
func (q *QueuesAPI) List() []*queues.Queue {
	return q.manager.List()
}

// Pause pauses the named queue.
func (q *QueuesAPI) Pause(name string) error {
	if err := q.manager.Pause(name); err != nil {
		return err
	}
	return q.persistCurrent(name)
}

// Resume resumes the named queue.
func (q *QueuesAPI) Resume(name string) error {
	if err := q.manager.Resume(name); err != nil {
		return err
	}
	return q.persistCurrent(name)
}

// Clear drops all pending tasks in the named queue.
func (q *QueuesAPI) Clear(name string) error {
	return q.manager.Clear(name)
}

func (q *QueuesAPI) persistCurrent(name string) error {
	current, err := q.manager.Read(name)
	if err != nil {
		return err
	}
	q.persistSave(current)
	return nil
}

func (q *QueuesAPI) persistSave(queue *queues.Queue) {
	if q.persist == nil {
		return
	}
	err := q.persist.SaveQueue(PersistedQueue{
		ID: queue.ID, Name: queue.Name, Concurrency: queue.Concurrency,
		MaxSize: queue.MaxSize, Overflow: queue.Overflow, Paused: queue.Paused,
	})
	if err != nil {
		corelog.For("sdk").Warn("persist queue failed", "name", queue.Name, "error", err)
	}
}

func (q *QueuesAPI) persistDelete(name string) {
	if q.persist == nil {
		return
	}
	if err := q.persist.DeleteQueue(name); err != nil {
		corelog.For("sdk").Warn("delete persisted queue failed", "name", name, "error", err)
	}
}

// GetStats returns the named queue's stats snapshot.
func (q *QueuesAPI) GetStats(name string) (queues.Stats, error) {
	return q.manager.GetStats(name)
}
