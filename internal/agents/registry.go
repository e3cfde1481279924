package agents

import (
	"sort"
	"sync"

	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

// Registry is the name-keyed Agent Registry, mirroring the teacher's
// ToolRegistry map-of-definitions shape.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*Agent
	order  map[string]int
	nextSeq int
}

// NewRegistry creates an empty Agent Registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]*Agent),
		order:  make(map[string]int),
	}
}

// Create registers a new agent. Fails on name collision, or if the agent
// subscribes to neither a queue nor an action.
func (r *Registry) Create(a Agent) (*Agent, error) {
	if a.Name == "" {
		return nil, core.New("agents.create", core.KindValidation, nil)
	}
	if len(a.Queues) == 0 && len(a.Actions) == 0 {
		return nil, core.New("agents.create", core.KindValidation, nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.agents {
		if existing.Name == a.Name {
			return nil, core.New("agents.create", core.KindDuplicate, nil)
		}
	}

	stored := a
	r.agents[a.ID] = &stored
	r.order[a.ID] = r.nextSeq
	r.nextSeq++
	return &stored, nil
}

// Read returns the agent by id.
func (r *Registry) Read(id string) (*Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[id]
	if !ok {
		return nil, core.New("agents.read", core.KindNotFound, nil)
	}
	cp := *a
	return &cp, nil
}

// Update applies delta to the stored agent. Renaming migrates the name
// index atomically since the index is derived (scanned), not maintained
// separately.
func (r *Registry) Update(id string, delta func(Agent) Agent) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.agents[id]
	if !ok {
		return nil, core.New("agents.update", core.KindNotFound, nil)
	}

	updated := delta(*existing)
	updated.ID = id
	r.agents[id] = &updated
	return &updated, nil
}

// Delete removes an agent. Running tasks the agent already owns are not
// cancelled; the dispatcher retains its own reference until completion.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.agents[id]; !ok {
		return core.New("agents.delete", core.KindNotFound, nil)
	}
	delete(r.agents, id)
	delete(r.order, id)
	return nil
}

// Enable flips an agent's Enabled flag to true.
func (r *Registry) Enable(id string) error { return r.setEnabled(id, true) }

// Disable flips an agent's Enabled flag to false.
func (r *Registry) Disable(id string) error { return r.setEnabled(id, false) }

func (r *Registry) setEnabled(id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[id]
	if !ok {
		return core.New("agents.enable", core.KindNotFound, nil)
	}
	a.Enabled = enabled
	return nil
}

// List returns all agents.
func (r *Registry) List() []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Agent, 0, len(r.agents))
	for _, a := range r.agents {
		result = append(result, *a)
	}
	return result
}

// FindForQueue returns enabled agents subscribed to q, sorted by
// descending priority.
func (r *Registry) FindForQueue(q string) []Agent {
	return r.findSorted(func(a *Agent) bool { return a.Enabled && a.subscribesQueue(q) })
}

// FindForAction returns enabled agents subscribed to action, sorted by
// descending priority.
func (r *Registry) FindForAction(action string) []Agent {
	return r.findSorted(func(a *Agent) bool { return a.Enabled && a.subscribesAction(action) })
}

// FindForTask returns enabled agents matching task.Queue OR task.Action,
// whose CanHandle (if set) accepts the task, priority-sorted descending
// with ties broken by registration (insertion) order.
func (r *Registry) FindForTask(task tasks.Task) []Agent {
	return r.findSorted(func(a *Agent) bool {
		if !a.Enabled {
			return false
		}
		matches := a.subscribesQueue(task.Queue) || a.subscribesAction(task.Action)
		if !matches {
			return false
		}
		if a.CanHandle != nil && !a.CanHandle(task) {
			return false
		}
		return true
	})
}

func (r *Registry) findSorted(pred func(*Agent) bool) []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Agent, 0, len(r.agents))
	for _, a := range r.agents {
		if pred(a) {
			result = append(result, *a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Priority != result[j].Priority {
			return result[i].Priority > result[j].Priority
		}
		return r.order[result[i].ID] < r.order[result[j].ID]
	})
	return result
}
