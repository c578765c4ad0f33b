package broadcast

import (
	"context"

	"dispatch/internal/core/ports"
)

// MultiPublisher fans every event out to several publishers, typically the
// in-process hub plus the Kafka mirror. Order is preserved; each publisher
// keeps its own delivery guarantees.
type MultiPublisher struct {
	publishers []ports.EventPublisher
}

// NewMultiPublisher composes publishers into one.
func NewMultiPublisher(publishers ...ports.EventPublisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

// Publish delivers the event to every composed publisher.
func (m *MultiPublisher) Publish(ctx context.Context, event ports.Event) {
	for _, p := range m.publishers {
		p.Publish(ctx, event)
	}
}
