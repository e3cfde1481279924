package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dohr-michael/ozzie-core/internal/agents"
	"github.com/dohr-michael/ozzie-core/internal/corelog"
)

// AgentRecord is the persistable projection of an agents.Agent: Resolve and
// CanHandle are closures and cannot round-trip, so only the registry's
// bookkeeping fields are saved. A restored agent needs a fresh
// Resolver/CanHandle registered under the same name before it can accept
// tasks again.
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
		ID: a.ID, Name: a.Name, Queues: a.Queues,
		Actions: a.Actions, Priority: a.Priority, Enabled: a.Enabled,
	}
}

// SaveAgent queues an upsert of an agent's bookkeeping fields keyed by ID.
func (s *Store) SaveAgent(a agents.Agent) {
	data, err := json.Marshal(toAgentRecord(a))
	if err != nil {
		corelog.For("sqlitestore").Error("marshal agent failed", "id", a.ID, "error", err)
		return
	}
	s.enqueue(func(db *sql.DB) error {
		_, err := db.Exec(`INSERT INTO agents (id, data) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET data = excluded.data`, a.ID, string(data))
		return err
	})
}

// LoadAgent synchronously reads a persisted AgentRecord by ID.
func (s *Store) LoadAgent(id string) (AgentRecord, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM agents WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return AgentRecord{}, notFound("sqlitestore.agents.Load", err)
	}
	if err != nil {
		return AgentRecord{}, fmt.Errorf("load agent %s: %w", id, err)
	}
	var r AgentRecord
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return AgentRecord{}, fmt.Errorf("decode agent %s: %w", id, err)
	}
	return r, nil
}

// DeleteAgent queues removal of a persisted agent record.
func (s *Store) DeleteAgent(id string) {
	s.enqueue(func(db *sql.DB) error {
		_, err := db.Exec(`DELETE FROM agents WHERE id = ?`, id)
		return err
	})
}

// ListAgents synchronously returns every persisted AgentRecord, unordered.
func (s *Store) ListAgents() ([]AgentRecord, error) {
	rows, err := s.db.Query(`SELECT data FROM agents`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var out []AgentRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("list agents: %w", err)
		}
		var r AgentRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("decode agent: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
