// Package broadcast implements the in-process fan-out hub for lifecycle
// events. Subscribers attach to named topics and receive every event
// published while attached; there is no replay and no persistence. Delivery
// is at-most-once: a subscriber that cannot keep up has events dropped
// rather than slowing the publisher down.
package broadcast

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"dispatch/internal/core/ports"
)

// shardCount spreads topic locks so hot topics don't contend with each other.
const shardCount = 16

// DefaultBuffer is the per-subscriber channel capacity used when the caller
// passes a non-positive buffer size.
const DefaultBuffer = 16

// Hub is a sharded topic registry. It satisfies ports.EventPublisher, so
// command handlers publish into it directly; transport adapters subscribe on
// behalf of connected clients.
//
// The zero value is not usable; create hubs with NewHub.
type Hub struct {
	shards [shardCount]shard
	nextID atomic.Uint64
}

type shard struct {
	mu     sync.RWMutex
	topics map[string]map[uint64]chan ports.Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	h := &Hub{}
	for i := range h.shards {
		h.shards[i].topics = make(map[string]map[uint64]chan ports.Event)
	}
	return h
}

func (h *Hub) shardFor(topic string) *shard {
	f := fnv.New32a()
	_, _ = f.Write([]byte(topic))
	return &h.shards[f.Sum32()%shardCount]
}

// Subscribe attaches a new subscriber to the topic. The returned subscription
// must be closed when the consumer disconnects, or its channel registration
// leaks.
func (h *Hub) Subscribe(topic string, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	id := h.nextID.Add(1)
	ch := make(chan ports.Event, buffer)

	s := h.shardFor(topic)
	s.mu.Lock()
	subs, ok := s.topics[topic]
	if !ok {
		subs = make(map[uint64]chan ports.Event)
		s.topics[topic] = subs
	}
	subs[id] = ch
	s.mu.Unlock()

	return &Subscription{hub: h, topic: topic, id: id, ch: ch}
}

// Publish delivers the event to every current subscriber of its topic.
// The send never blocks: a full subscriber buffer drops the event for that
// subscriber only.
func (h *Hub) Publish(_ context.Context, event ports.Event) {
	s := h.shardFor(event.Topic)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.topics[event.Topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount reports how many subscribers a topic currently has.
func (h *Hub) SubscriberCount(topic string) int {
	s := h.shardFor(topic)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.topics[topic])
}

func (h *Hub) unsubscribe(topic string, id uint64) {
	s := h.shardFor(topic)
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, ok := s.topics[topic]
	if !ok {
		return
	}
	if ch, exists := subs[id]; exists {
		delete(subs, id)
		close(ch)
	}
	if len(subs) == 0 {
		delete(s.topics, topic)
	}
}

// Subscription is one consumer's attachment to a topic.
type Subscription struct {
	hub   *Hub
	topic string
	id    uint64
	ch    chan ports.Event

	closeOnce sync.Once
}

// Topic returns the subscribed topic name.
func (s *Subscription) Topic() string { return s.topic }

// Events returns the channel carrying this subscriber's events. The channel
// closes when the subscription is closed.
func (s *Subscription) Events() <-chan ports.Event { return s.ch }

// Close detaches the subscriber from the topic. Safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.unsubscribe(s.topic, s.id)
	})
}
