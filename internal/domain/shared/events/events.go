// Package events holds the aggregate side of the outbox: aggregates record
// facts and command handlers drain them after a successful write.
package events

import "time"

type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder is embedded by aggregates. The zero value is ready to use.
type EventRecorder struct {
	pending []DomainEvent
}

// Record appends event; nil events are ignored.
func (r *EventRecorder) Record(event DomainEvent) {
	if event != nil {
		r.pending = append(r.pending, event)
	}
}

// PendingEvents returns a copy of the recorded events in order.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	return append([]DomainEvent(nil), r.pending...)
}

func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}

// Drain returns the recorded events and forgets them.
func (r *EventRecorder) Drain() []DomainEvent {
	out := r.pending
	r.pending = nil
	return out
}
