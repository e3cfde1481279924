package kvstore

import "github.com/dohr-michael/ozzie-core/internal/actions"

const collActions = "actions"

// SaveAction persists an Action record keyed by name.
func (s *Store) SaveAction(a actions.Action) error {
	return s.put(collActions, a.Name, a)
}

// LoadAction reads an Action by name.
func (s *Store) LoadAction(name string) (actions.Action, error) {
	var a actions.Action
	err := s.get(collActions, name, &a)
	return a, err
}

// DeleteAction removes a persisted Action record.
func (s *Store) DeleteAction(name string) error {
	return s.delete(collActions, name)
}

// ListActions returns every persisted Action, unordered.
func (s *Store) ListActions() ([]actions.Action, error) {
	var out []actions.Action
	err := s.listInto(collActions, func() any { return new(actions.Action) }, func(v any) {
		out = append(out, *v.(*actions.Action))
	})
	return out, err
}
