package sdk

import (
	"github.com/dohr-michael/ozzie-core/internal/agents"
	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/events"
	"github.com/dohr-michael/ozzie-core/internal/ids"
)

// AgentsAPI exposes the Agent Registry operations (spec §4.2/§4.10),
// re-emitting agent:registered/agent:removed lifecycle events the
// registry itself has no bus reference to publish. When a persistence
// adapter is wired, every mutation is written through (spec §6.4).
type AgentsAPI struct {
	registry *agents.Registry
	bus      *events.Bus
	persist  Adapter
}

// Create registers a new agent, minting an ID if the caller left it blank.
func (a *AgentsAPI) Create(agent agents.Agent) (*agents.Agent, error) {
	if agent.ID == "" {
		agent.ID = ids.New("agent")
	}
	created, err := a.registry.Create(agent)
	if err != nil {
		return nil, err
	}
	a.bus.Publish(events.NewEvent(events.EventAgentAdded, events.SourceAgents,
		events.PayloadMap(events.AgentLifecyclePayload{AgentID: created.ID, Name: created.Name})))
	a.persistSave(*created)
	return created, nil
}

// Read returns the agent by id.
func (a *AgentsAPI) Read(id string) (*agents.Agent, error) {
	return a.registry.Read(id)
}

// Update applies delta to the named agent.
func (a *AgentsAPI) Update(id string, delta func(agents.Agent) agents.Agent) (*agents.Agent, error) {
	updated, err := a.registry.Update(id, delta)
	if err != nil {
		return nil, err
	}
	a.persistSave(*updated)
	return updated, nil
}

// Delete removes an agent. Its running tasks are not cancelled; the
// dispatcher retains its own reference until completion.
func (a *AgentsAPI) Delete(id string) error {
	agent, err := a.registry.Read(id)
	if err != nil {
		return err
	}
	if err := a.registry.Delete(id); err != nil {
		return err
	}
	a.bus.Publish(events.NewEvent(events.EventAgentRemoved, events.SourceAgents,
		events.PayloadMap(events.AgentLifecyclePayload{AgentID: agent.ID, Name: agent.Name})))
	a.persistDelete(agent.ID)
	return nil
}

// List returns all registered agents.
func (a *AgentsAPI) List() []agents.Agent {
	return a.registry.List()
}

// Enable flips an agent's Enabled flag to true.
func (a *AgentsAPI) Enable(id string) error {
	return a.setEnabled(id, a.registry.Enable)
}

// Disable flips an agent's Enabled flag to false.
func (a *AgentsAPI) Disable(id string) error {
	return a.setEnabled(id, a.registry.Disable)
}

func (a *AgentsAPI) setEnabled(id string, apply func(string) error) error {
	if err := apply(id); err != nil {
		return err
	}
	if updated, err := a.registry.Read(id); err == nil {
		a.persistSave(*updated)
	}
	return nil
}

func (a *AgentsAPI) persistSave(agent agents.Agent) {
	if a.persist == nil {
		return
	}
	err := a.persist.SaveAgent(PersistedAgent{
		ID: agent.ID, Name: agent.Name, Queues: agent.Queues,
		Actions: agent.Actions, Priority: agent.Priority, Enabled: agent.Enabled,
	})
	if err != nil {
		corelog.For("sdk").Warn("persist agent failed", "id", agent.ID, "error", err)
	}
}

func (a *AgentsAPI) persistDelete(id string) {
	if a.persist == nil {
		return
	}
	if err := a.persist.DeleteAgent(id); err != nil {
		corelog.For("sdk").Warn("delete persisted agent failed", "id", id, "error", err)
	}
}
