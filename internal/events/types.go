package events

import (
	"encoding/json"
	"time"

	"github.com/dohr-michael/ozzie-core/internal/ids"
)

// EventType names one of the envelope kinds the dispatcher, queue manager,
// agent registry, undo log, and SDK facade publish.
type EventType string

const (
	EventTranscript   EventType = "transcript"
	EventClassified   EventType = "classified"
	EventQueued       EventType = "queued"
	EventStarted      EventType = "started"
	EventCompleted    EventType = "completed"
	EventFailed       EventType = "failed"
	EventRetry        EventType = "retry"
	EventDeadletter   EventType = "deadletter"
	EventCancelled    EventType = "cancelled"
	EventUndo         EventType = "undo"
	EventQueueCreated EventType = "queue:created"
	EventQueuePaused  EventType = "queue:paused"
	EventQueueResumed EventType = "queue:resumed"
	EventAgentAdded   EventType = "agent:registered"
	EventAgentRemoved EventType = "agent:removed"
)

// EventSource identifies the component that emitted an event.
type EventSource string

const (
	SourceDispatcher EventSource = "dispatcher"
	SourceQueue      EventSource = "queue"
	SourceAgents     EventSource = "agents"
	SourceUndo       EventSource = "undo"
	SourceSDK        EventSource = "sdk"
	SourceClassifier EventSource = "classifier"
)

// Event is the envelope published on the bus: {type, payload, timestamp}
// plus a source tag and opaque ID for tracing/History().
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Source    EventSource    `json:"source,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

// NewEvent builds an untyped event from a raw payload map.
func NewEvent(eventType EventType, source EventSource, payload map[string]any) Event {
	return Event{
		ID:        ids.EventID(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// EventPayload is the interface all typed payloads implement, so NewTypedEvent
// can derive the envelope's Type field automatically.
type EventPayload interface {
	EventType() EventType
}

// NewTypedEvent builds an event envelope from a typed payload.
func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return Event{
		ID:        ids.EventID(),
		Type:      payload.EventType(),
		Source:    source,
		Timestamp: time.Now(),
		Payload:   toMap(payload),
	}
}

// ExtractPayload decodes an event's payload map back into a typed struct.
func ExtractPayload[T EventPayload](e Event) (T, bool) {
	var result T
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

func toMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}
