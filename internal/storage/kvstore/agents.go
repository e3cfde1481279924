package kvstore

import "github.com/dohr-michael/ozzie-core/internal/agents"

const collAgents = "agents"

// AgentRecord is the persistable projection of an agents.Agent: the
// Resolve and CanHandle functions cannot round-trip through JSON, so only
// the registry's bookkeeping fields are saved. Restoring a saved agent
// requires the caller to supply a Resolver/CanHandle for the same name
// before the agent can accept tasks again.
type AgentRecord struct {
	ID       string
	Name     string
	Queues   []string
	Actions  []string
	Priority int
	Enabled  bool
}

func toAgentRecord(a agents.Agent) AgentRecord {
	return AgentRecord{
		ID:       a.ID,
		Name:     a.Name,
		Queues:   a.Queues,
		Actions:  a.Actions,
		Priority: a.Priority,
		Enabled:  a.Enabled,
	}
}

// SaveAgent persists an agent's bookkeeping fields keyed by ID.
func (s *Store) SaveAgent(a agents.Agent) error {
	return s.put(collAgents, a.ID, toAgentRecord(a))
}

// LoadAgent reads a persisted AgentRecord by ID.
func (s *Store) LoadAgent(id string) (AgentRecord, error) {
	var r AgentRecord
	err := s.get(collAgents, id, &r)
	return r, err
}

// DeleteAgent removes a persisted agent record.
func (s *Store) DeleteAgent(id string) error {
	return s.delete(collAgents, id)
}

// ListAgents returns every persisted AgentRecord, unordered.
func (s *Store) ListAgents() ([]AgentRecord, error) {
	var out []AgentRecord
	err := s.listInto(collAgents, func() any { return new(AgentRecord) }, func(v any) {
		out = append(out, *v.(*AgentRecord))
	})
	return out, err
}
