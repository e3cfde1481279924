package actions

import (
	"sort"
	"sync"

	"github.com/dohr-michael/ozzie-core/internal/core"
)

// Store is the in-memory, name-keyed Action registry. Mutations are
// serialized by a single RWMutex, mirroring the teacher's ToolRegistry map
// discipline.
type Store struct {
	mu      sync.RWMutex
	actions map[string]*Action
}

// NewStore creates an empty Action Store.
func NewStore() *Store {
	return &Store{actions: make(map[string]*Action)}
}

// Create registers a new action. Fails with core.KindDuplicate if the name
// is already taken.
func (s *Store) Create(a Action) (*Action, error) {
	if a.Name == "" {
		return nil, core.New("actions.create", core.KindValidation, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.actions[a.Name]; exists {
		return nil, core.New("actions.create", core.KindDuplicate, nil)
	}

	stored := a
	s.actions[a.Name] = &stored
	return &stored, nil
}

// Read returns the action by name.
func (s *Store) Read(name string) (*Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.actions[name]
	if !ok {
		return nil, core.New("actions.read", core.KindNotFound, nil)
	}
	cp := *a
	return &cp, nil
}

// Update applies delta to the stored action, identified by name. Name
// itself is immutable through Update; use delete+create to rename.
func (s *Store) Update(name string, delta func(Action) Action) (*Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.actions[name]
	if !ok {
		return nil, core.New("actions.update", core.KindNotFound, nil)
	}

	updated := delta(*existing)
	updated.Name = name
	s.actions[name] = &updated
	return &updated, nil
}

// Delete removes an action by name. Disabling in-flight tasks bound to it
// is out of scope here: deletion does not cancel running tasks.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.actions[name]; !ok {
		return core.New("actions.delete", core.KindNotFound, nil)
	}
	delete(s.actions, name)
	return nil
}

// Enable flips an action's Enabled flag to true.
func (s *Store) Enable(name string) error {
	return s.setEnabled(name, true)
}

// Disable flips an action's Enabled flag to false. In-flight tasks already
// bound to this action are unaffected.
func (s *Store) Disable(name string) error {
	return s.setEnabled(name, false)
}

func (s *Store) setEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actions[name]
	if !ok {
		return core.New("actions.enable", core.KindNotFound, nil)
	}
	a.Enabled = enabled
	return nil
}

// List returns all actions, sorted by name. When enabledOnly is true, only
// enabled actions are returned — the feed the classifier consumes.
func (s *Store) List(enabledOnly bool) []Action {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Action, 0, len(s.actions))
	for _, a := range s.actions {
		if enabledOnly && !a.Enabled {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
