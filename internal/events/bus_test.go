package events

import (
	"sync"
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	var received []Event

	bus.Subscribe(func(e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	}, EventQueued)

	bus.Publish(NewTypedEvent(SourceQueue, QueuedPayload{TaskID: "t1", Queue: "default"}))
	bus.Publish(NewTypedEvent(SourceDispatcher, StartedPayload{TaskID: "t1"}))

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Type != EventQueued {
		t.Errorf("expected %s, got %s", EventQueued, received[0].Type)
	}
}

func TestBusSubscribeAll(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	count := 0

	bus.Subscribe(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(NewTypedEvent(SourceQueue, QueuedPayload{TaskID: "t1"}))
	bus.Publish(NewTypedEvent(SourceDispatcher, StartedPayload{TaskID: "t1"}))

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if count != 2 {
		t.Errorf("expected 2 events, got %d", count)
	}
}

func TestRingBuffer(t *testing.T) {
	rb := NewRingBuffer(3)

	for i := 0; i < 5; i++ {
		rb.Add(NewEvent(EventQueued, SourceQueue, map[string]any{"i": i}))
	}

	got := rb.Get(10)
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	// MRU-preserving: the oldest two (i=0,1) should have been evicted.
	if got[0].Payload["i"].(int) != 2 {
		t.Fatalf("expected oldest retained event to be i=2, got %v", got[0].Payload["i"])
	}
}

func TestSubscribeChan(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	ch, unsub := bus.SubscribeChan(8, EventQueued)
	defer unsub()

	bus.Publish(NewTypedEvent(SourceQueue, QueuedPayload{TaskID: "t1"}))

	select {
	case e := <-ch:
		if e.Type != EventQueued {
			t.Errorf("expected %s, got %s", EventQueued, e.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBusHandlerPanicDoesNotCrashDispatch(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	done := make(chan struct{})
	bus.Subscribe(func(e Event) { panic("boom") })
	bus.Subscribe(func(e Event) { close(done) })

	bus.Publish(NewTypedEvent(SourceQueue, QueuedPayload{TaskID: "t1"}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second subscriber never ran after first panicked")
	}
}
