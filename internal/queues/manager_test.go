package queues

import (
	"testing"

	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/events"
)

func TestManagerCreateDuplicate(t *testing.T) {
	m := NewManager(events.NewBus(8))
	if _, err := m.Create(Queue{Name: "default", Concurrency: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := m.Create(Queue{Name: "default", Concurrency: 1})
	if !core.IsKind(err, core.KindDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestManagerDeleteRejectsWhileRunning(t *testing.T) {
	m := NewManager(events.NewBus(8))
	q, _ := m.Create(Queue{Name: "default", Concurrency: 1})
	q.IncrementRunning()

	if err := m.Delete("default"); err != ErrNotDeletable {
		t.Fatalf("expected ErrNotDeletable, got %v", err)
	}
}

func TestManagerPauseResumeEmitsEvents(t *testing.T) {
	bus := events.NewBus(8)
	m := NewManager(bus)
	m.Create(Queue{Name: "default", Concurrency: 1})

	ch, unsub := bus.SubscribeChan(8, events.EventQueuePaused, events.EventQueueResumed)
	defer unsub()

	if err := m.Pause("default"); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := m.Resume("default"); err != nil {
		t.Fatalf("resume: %v", err)
	}

	first := <-ch
	second := <-ch
	if first.Type != events.EventQueuePaused || second.Type != events.EventQueueResumed {
		t.Fatalf("unexpected event sequence: %v %v", first.Type, second.Type)
	}
}
