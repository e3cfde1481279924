package sdk

import "github.com/dohr-michael/ozzie-core/internal/events"

// On subscribes a handler to specific event types (or all types if none
// are given), returning an unsubscribe thunk (spec §6.2).
func (s *SDK) On(handler events.Subscriber, eventTypes ...events.EventType) func() {
	return s.Bus.Subscribe(handler, eventTypes...)
}

// Off is an alias for the unsubscribe thunk returned by On, provided for
// callers that prefer a named method over holding the closure.
func Off(unsubscribe func()) {
	unsubscribe()
}
