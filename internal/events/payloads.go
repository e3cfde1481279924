package events

import "time"

// TranscriptPayload carries a raw utterance as it enters submit().
type TranscriptPayload struct {
	Utterance string `json:"utterance"`
}

func (TranscriptPayload) EventType() EventType { return EventTranscript }

// ClassifiedPayload carries the classifier's decision. Dropped is set (with
// Action "unknown") when the classifier found no matching action; an
// utterance for which the classifier returned nothing (debounced,
// rate-limited) publishes no classified event.
type ClassifiedPayload struct {
	Action     string         `json:"action,omitempty"`
	Content    string         `json:"content"`
	Params     map[string]any `json:"params,omitempty"`
	Priority   int            `json:"priority,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Dropped    bool           `json:"dropped"`
}

func (ClassifiedPayload) EventType() EventType { return EventClassified }

// QueuedPayload reports a task's admission into a named queue.
type QueuedPayload struct {
	TaskID   string `json:"task_id"`
	Queue    string `json:"queue"`
	Action   string `json:"action"`
	Priority int    `json:"priority"`
	Attempt  int    `json:"attempt"`
}

func (QueuedPayload) EventType() EventType { return EventQueued }

// StartedPayload reports a task transitioning to running on an agent.
type StartedPayload struct {
	TaskID  string `json:"task_id"`
	Queue   string `json:"queue"`
	AgentID string `json:"agent_id"`
	Attempt int    `json:"attempt"`
}

func (StartedPayload) EventType() EventType { return EventStarted }

// CompletedPayload reports a task's successful terminal outcome.
type CompletedPayload struct {
	TaskID   string `json:"task_id"`
	Queue    string `json:"queue"`
	AgentID  string `json:"agent_id"`
	HasUndo  bool   `json:"has_undo"`
	Duration time.Duration `json:"duration_ns"`
}

func (CompletedPayload) EventType() EventType { return EventCompleted }

// FailedPayload reports a failed attempt; a retry event follows when the
// task is retried.
type FailedPayload struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
}

func (FailedPayload) EventType() EventType { return EventFailed }

// RetryPayload reports a failed attempt being re-enqueued.
type RetryPayload struct {
	TaskID  string        `json:"task_id"`
	Queue   string        `json:"queue"`
	Attempt int           `json:"attempt"`
	Error   string        `json:"error"`
	Delay   time.Duration `json:"delay_ns"`
}

func (RetryPayload) EventType() EventType { return EventRetry }

// DeadletterPayload reports a task landing in the dead-letter terminal state.
type DeadletterPayload struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
	Reason string `json:"reason"`
}

func (DeadletterPayload) EventType() EventType { return EventDeadletter }

// CancelledPayload reports a task being cancelled, pending or running.
type CancelledPayload struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
}

func (CancelledPayload) EventType() EventType { return EventCancelled }

// UndoPayload reports an undo entry being invoked.
type UndoPayload struct {
	EntryID string `json:"entry_id"`
	TaskID  string `json:"task_id"`
	Action  string `json:"action"`
	Ok      bool   `json:"ok"`
}

func (UndoPayload) EventType() EventType { return EventUndo }

// QueueLifecyclePayload reports queue create/pause/resume transitions.
// Published with an explicit EventType (created/paused/resumed) via
// NewEvent + PayloadMap, since one struct backs three distinct event types.
type QueueLifecyclePayload struct {
	Queue string `json:"queue"`
}

// AgentLifecyclePayload reports agent registration/removal. Published with
// an explicit EventType (registered/removed) via NewEvent + PayloadMap.
type AgentLifecyclePayload struct {
	AgentID string `json:"agent_id"`
	Name    string `json:"name"`
}

// PayloadMap JSON-round-trips v into a map, for event types whose payload
// shape is shared across more than one EventType constant.
func PayloadMap(v any) map[string]any { return toMap(v) }
