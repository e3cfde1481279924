package tasks

import (
	"sort"
	"sync"

	"github.com/dohr-michael/ozzie-core/internal/core"
)

// Store is the in-memory Task record store: insert/update/read by id, with
// a secondary by-queue index for List(queue).
type Store struct {
	mu      sync.RWMutex
	tasks   map[string]*Task
	byQueue map[string]map[string]struct{}
}

// NewStore creates an empty Task Store.
func NewStore() *Store {
	return &Store{
		tasks:   make(map[string]*Task),
		byQueue: make(map[string]map[string]struct{}),
	}
}

// Insert adds a new task record.
func (s *Store) Insert(t Task) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := t
	s.tasks[t.ID] = &stored
	s.indexLocked(t.ID, t.Queue)
	return &stored
}

func (s *Store) indexLocked(id, queue string) {
	if queue == "" {
		return
	}
	set, ok := s.byQueue[queue]
	if !ok {
		set = make(map[string]struct{})
		s.byQueue[queue] = set
	}
	set[id] = struct{}{}
}

// Get returns the task by id.
func (s *Store) Get(id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, core.New("tasks.get", core.KindNotFound, nil)
	}
	cp := *t
	return &cp, nil
}

// Update replaces the stored task, re-indexing if the queue changed.
func (s *Store) Update(t Task) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[t.ID]
	if !ok {
		return nil, core.New("tasks.update", core.KindNotFound, nil)
	}
	if existing.Queue != t.Queue {
		if set, ok := s.byQueue[existing.Queue]; ok {
			delete(set, t.ID)
		}
		s.indexLocked(t.ID, t.Queue)
	}

	stored := t
	s.tasks[t.ID] = &stored
	return &stored, nil
}

// List returns all tasks for a queue, or all tasks if queue is empty,
// ordered by CreatedAt.
func (s *Store) List(queue string) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids map[string]struct{}
	if queue != "" {
		ids = s.byQueue[queue]
	}

	result := make([]Task, 0, len(s.tasks))
	for id, t := range s.tasks {
		if ids != nil {
			if _, ok := ids[id]; !ok {
				continue
			}
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}

// PrepareRetry returns a copy of the task with status=pending and
// attempt+1, if attempt < maxAttempts. Returns (nil, false) when retries
// are exhausted.
func (s *Store) PrepareRetry(id string) (*Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.Attempt >= t.MaxAttempts {
		return nil, false
	}

	t.Status = StatusPending
	t.Attempt++
	t.StartedAt = nil
	cp := *t
	return &cp, true
}

// Cancel transitions a pending or running task to cancelled. Terminal
// states reject the transition.
func (s *Store) Cancel(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, core.New("tasks.cancel", core.KindNotFound, nil)
	}
	if t.Status != StatusPending && t.Status != StatusRunning {
		return nil, core.New("tasks.cancel", core.KindValidation, nil)
	}

	t.Status = StatusCancelled
	cp := *t
	return &cp, nil
}

// AppendCheckpoint records a checkpoint note against a task, typically on a
// failed attempt.
func (s *Store) AppendCheckpoint(id string, cp Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return core.New("tasks.checkpoint", core.KindNotFound, nil)
	}
	t.Checkpoints = append(t.Checkpoints, cp)
	return nil
}
