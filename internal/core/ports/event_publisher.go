package ports

import (
	"context"
	"time"
)

// Topic names for lifecycle event fan-out. Subscribers attach to a topic and
// receive every event published to it; delivery is at-most-once.
const (
	// TopicAdmin carries every lifecycle event in the system.
	TopicAdmin = "admin"
)

// PartnerTopic returns the per-partner topic name carrying offers and
// lifecycle updates for that courier's assignments.
func PartnerTopic(partnerID string) string {
	return "partner." + partnerID
}

// OrderTopic returns the per-order topic name carrying that order's
// fulfillment updates.
func OrderTopic(orderID string) string {
	return "order." + orderID
}

// Event is one lifecycle notification. Payload keys are event-specific and
// must be JSON-serializable.
type Event struct {
	// Topic is the fan-out channel this event belongs to.
	Topic string
	// Name identifies the event kind, e.g. "delivery.accepted".
	Name string
	// At is when the event occurred.
	At time.Time
	// Payload carries event-specific fields.
	Payload map[string]any
}

// EventPublisher pushes lifecycle events to interested parties. Publishing is
// best-effort fire-and-forget: a slow or absent consumer never blocks or
// fails the state change that produced the event.
type EventPublisher interface {
	// Publish delivers the event to the topic's subscribers.
	Publish(ctx context.Context, event Event)
}
