package kvstore

import "github.com/dohr-michael/ozzie-core/internal/queues"

const collQueues = "queues"

// QueueRecord is the persistable projection of a queues.Queue: its
// construction-time shape plus Paused, but not the in-memory pending list
// or running/completed/failed counters, which are runtime-only state that
// a restart rebuilds from the task store.
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
		ID:          q.ID,
		Name:        q.Name,
		Concurrency: q.Concurrency,
		MaxSize:     q.MaxSize,
		Overflow:    q.Overflow,
		Paused:      q.Paused,
	}
}

// SaveQueue persists a queue's construction-time shape keyed by name.
func (s *Store) SaveQueue(q queues.Queue) error {
	return s.put(collQueues, q.Name, toQueueRecord(q))
}

// LoadQueue reads a persisted QueueRecord by name.
func (s *Store) LoadQueue(name string) (QueueRecord, error) {
	var r QueueRecord
	err := s.get(collQueues, name, &r)
	return r, err
}

// DeleteQueue removes a persisted queue record.
func (s *Store) DeleteQueue(name string) error {
	return s.delete(collQueues, name)
}

// ListQueues returns every persisted QueueRecord, unordered.
func (s *Store) ListQueues() ([]QueueRecord, error) {
	var out []QueueRecord
	err := s.listInto(collQueues, func() any { return new(QueueRecord) }, func(v any) {
		out = append(out, *v.(*QueueRecord))
	})
	return out, err
}
