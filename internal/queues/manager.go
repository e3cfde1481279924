package queues

import (
	"sort"
	"sync"

	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/events"
)

// Manager owns the named Queue collection and re-emits lifecycle events on
// create/pause/resume.
type Manager struct {
	mu     sync.RWMutex
	queues map[string]*Queue
	bus    *events.Bus
}

// NewManager creates an empty Queue Manager publishing lifecycle events on
// bus.
func NewManager(bus *events.Bus) *Manager {
	return &Manager{queues: make(map[string]*Queue), bus: bus}
}

// Create registers a new named queue. Fails with core.KindDuplicate if the
// name is taken.
func (m *Manager) Create(q Queue) (*Queue, error) {
	if q.Name == "" {
		return nil, core.New("queues.create", core.KindValidation, nil)
	}
	if q.Concurrency < 1 {
		q.Concurrency = 1
	}
	if q.Overflow == "" {
		q.Overflow = OverflowError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.queues[q.Name]; exists {
		return nil, core.New("queues.create", core.KindDuplicate, nil)
	}

	stored := q
	m.queues[q.Name] = &stored
	if m.bus != nil {
		m.bus.Publish(events.NewEvent(events.EventQueueCreated, events.SourceQueue,
			events.PayloadMap(events.QueueLifecyclePayload{Queue: q.Name})))
	}
	return &stored, nil
}

// Read returns the named queue.
func (m *Manager) Read(name string) (*Queue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q, ok := m.queues[name]
	if !ok {
		return nil, core.New("queues.read", core.KindNotFound, nil)
	}
	return q, nil
}

// List returns all queues, sorted by name.
func (m *Manager) List() []*Queue {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Queue, 0, len(m.queues))
	for _, q := range m.queues {
		result = append(result, q)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Pause pauses the named queue and emits queue:paused.
func (m *Manager) Pause(name string) error {
	q, err := m.Read(name)
	if err != nil {
		return err
	}
	q.Pause()
	if m.bus != nil {
		m.bus.Publish(events.NewEvent(events.EventQueuePaused, events.SourceQueue,
			events.PayloadMap(events.QueueLifecyclePayload{Queue: name})))
	}
	return nil
}

// Resume resumes the named queue and emits queue:resumed.
func (m *Manager) Resume(name string) error {
	q, err := m.Read(name)
	if err != nil {
		return err
	}
	q.Resume()
	if m.bus != nil {
		m.bus.Publish(events.NewEvent(events.EventQueueResumed, events.SourceQueue,
			events.PayloadMap(events.QueueLifecyclePayload{Queue: name})))
	}
	return nil
}

// Clear drops all pending tasks in the named queue.
func (m *Manager) Clear(name string) error {
	q, err := m.Read(name)
	if err != nil {
		return err
	}
	q.Clear()
	return nil
}

// GetStats returns the named queue's stats snapshot.
func (m *Manager) GetStats(name string) (Stats, error) {
	q, err := m.Read(name)
	if err != nil {
		return Stats{}, err
	}
	return q.GetStats(), nil
}

// Delete removes the named queue. Rejects deletion while runningCount > 0.
func (m *Manager) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[name]
	if !ok {
		return core.New("queues.delete", core.KindNotFound, nil)
	}
	if !q.CanDelete() {
		return ErrNotDeletable
	}
	delete(m.queues, name)
	return nil
}
