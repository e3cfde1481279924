package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/corelog"
)

// SaveAction queues an upsert of an Action keyed by name. The write is
// applied asynchronously by Run.
func (s *Store) SaveAction(a actions.Action) {
	data, err := json.Marshal(a)
	if err != nil {
		corelog.For("sqlitestore").Error("marshal action failed", "name", a.Name, "error", err)
		return
	}
	s.enqueue(func(db *sql.DB) error {
		_, err := db.Exec(`INSERT INTO actions (id, data) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET data = excluded.data`, a.Name, string(data))
		return err
	})
}

// LoadAction synchronously reads a persisted Action by name.
func (s *Store) LoadAction(name string) (actions.Action, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM actions WHERE id = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return actions.Action{}, notFound("sqlitestore.actions.Load", err)
	}
	if err != nil {
		return actions.Action{}, fmt.Errorf("load action %s: %w", name, err)
	}
	var a actions.Action
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return actions.Action{}, fmt.Errorf("decode action %s: %w", name, err)
	}
	return a, nil
}

// DeleteAction queues removal of a persisted Action.
func (s *Store) DeleteAction(name string) {
	s.enqueue(func(db *sql.DB) error {
		_, err := db.Exec(`DELETE FROM actions WHERE id = ?`, name)
		return err
	})
}

// ListActions synchronously returns every persisted Action, unordered.
func (s *Store) ListActions() ([]actions.Action, error) {
	rows, err := s.db.Query(`SELECT data FROM actions`)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var out []actions.Action
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("list actions: %w", err)
		}
		var a actions.Action
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			return nil, fmt.Errorf("decode action: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
