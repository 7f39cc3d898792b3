package infrastructure

import (
	"challenger/domain/events"
)

// NoopEventPublisher drops every event.
// Used by admin commands such as reconcile where no notifications should fire.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
