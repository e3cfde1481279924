package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/queues"
)

// QueueRecord is the persistable projection of a queues.Queue:
// construction-time shape plus Paused, not the in-memory pending list or
// counters, which a restart rebuilds from the task store.
type QueueRecord struct {
	ID          string
	Name        string
	Concurrency int
	MaxSize     int
	Overflow    queues.Overflow
	Paused      bool
}

func toQueueRecord(q queues.Queue) QueueRecord {
	return QueueRecord{
		ID: q.ID, Name: q.Name, Concurrency: q.Concurrency,
		MaxSize: q.MaxSize, Overflow: q.Overflow, Paused: q.Paused,
	}
}

// SaveQueue queues an upsert of a queue's construction-time shape keyed by name.
func (s *Store) SaveQueue(q queues.Queue) {
	data, err := json.Marshal(toQueueRecord(q))
	if err != nil {
		corelog.For("sqlitestore").Error("marshal queue failed", "name", q.Name, "error", err)
		return
	}
	s.enqueue(func(db *sql.DB) error {
		_, err := db.Exec(`INSERT INTO queues (id, data) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET data = excluded.data`, q.Name, string(data))
		return err
	})
}

// LoadQueue synchronously reads a persisted QueueRecord by name.
func (s *Store) LoadQueue(name string) (QueueRecord, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM queues WHERE id = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return QueueRecord{}, notFound("sqlitestore.queues.Load", err)
	}
	if err != nil {
		return QueueRecord{}, fmt.Errorf("load queue %s: %w", name, err)
	}
	var r QueueRecord
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return QueueRecord{}, fmt.Errorf("decode queue %s: %w", name, err)
	}
	return r, nil
}

// DeleteQueue queues removal of a persisted queue record.
func (s *Store) DeleteQueue(name string) {
	s.enqueue(func(db *sql.DB) error {
		_, err := db.Exec(`DELETE FROM queues WHERE id = ?`, name)
		return err
	})
}

// ListQueues synchronously returns every persisted QueueRecord, unordered.
func (s *Store) ListQueues() ([]QueueRecord, error) {
	rows, err := s.db.Query(`SELECT data FROM queues`)
	if err != nil {
		return nil, fmt.Errorf("list queues: %w", err)
	}
	defer rows.Close()

	var out []QueueRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("list queues: %w", err)
		}
		var r QueueRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("decode queue: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
