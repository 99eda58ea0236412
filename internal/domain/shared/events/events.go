package events

import "time"

// Event is a fact recorded by an aggregate and relayed to external consumers.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder collects pending events; aggregates embed it.
type EventRecorder struct {
	pending []Event
}

// Record appends an event to the pending list.
func (r *EventRecorder) Record(event Event) {
	r.pending = append(r.pending, event)
}

// PendingEvents returns recorded events in order.
func (r *EventRecorder) PendingEvents() []Event {
	return r.pending
}

// ClearEvents drops recorded events after they have been handed off.
func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}
