package sdk

import (
	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/events"
)

// ActionsAPI exposes the Action Store operations (spec §4.1/§4.10). When a
// persistence adapter is wired, every mutation is written through so a
// restarted SDK can restore the same state (spec §6.4).
type ActionsAPI struct {
	store   *actions.Store
	bus     *events.Bus
	persist Adapter
}

// Create registers a new action.
func (a *ActionsAPI) Create(action actions.Action) (*actions.Action, error) {
	created, err := a.store.Create(action)
	if err != nil {
		return nil, err
	}
	a.persistSave(*created)
	return created, nil
}

// Read returns the action by name.
func (a *ActionsAPI) Read(name string) (*actions.Action, error) {
	return a.store.Read(name)
}

// Update applies delta to the named action.
func (a *ActionsAPI) Update(name string, delta func(actions.Action) actions.Action) (*actions.Action, error) {
	updated, err := a.store.Update(name, delta)
	if err != nil {
		return nil, err
	}
	a.persistSave(*updated)
	return updated, nil
}

// Delete removes an action by name. In-flight tasks bound to it are
// unaffected.
func (a *ActionsAPI) Delete(name string) error {
	if err := a.store.Delete(name); err != nil {
		return err
	}
	a.persistDelete(name)
	return nil
}

// List returns all actions, or only enabled ones when enabledOnly is true.
func (a *ActionsAPI) List(enabledOnly bool) []actions.Action {
	return a.store.List(enabledOnly)
}

// Enable flips an action's Enabled flag to true.
func (a *ActionsAPI) Enable(name string) error {
	return a.setEnabled(name, true, a.store.Enable)
}

// Disable flips an action's Enabled flag to false.
func (a *ActionsAPI) Disable(name string) error {
	return a.setEnabled(name, false, a.store.Disable)
}

func (a *ActionsAPI) setEnabled(name string, _ bool, apply func(string) error) error {
	if err := apply(name); err != nil {
		return err
	}
	if updated, err := a.store.Read(name); err == nil {
		a.persistSave(*updated)
	}
	return nil
}

func (a *ActionsAPI) persistSave(act actions.Action) {
	if a.persist == nil {
		return
	}
	if err := a.persist.SaveAction(act); err != nil {
		corelog.For("sdk").Warn("persist action failed", "name", act.Name, "error", err)
	}
}

func (a *ActionsAPI) persistDelete(name string) {
	if a.persist == nil {
		return
	}
	if err := a.persist.DeleteAction(name); err != nil {
		corelog.For("sdk").Warn("delete persisted action failed", "name", name, "error", err)
	}
}
