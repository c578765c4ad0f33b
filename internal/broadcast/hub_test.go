package broadcast_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/broadcast"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

func event(topic, name string) ports.Event {
	return ports.Event{
		Topic:   topic,
		Name:    name,
		At:      time.Now().UTC(),
		Payload: map[string]any{"k": "v"},
	}
}

func TestPublishReachesAllTopicSubscribers(t *testing.T) {
	hub := broadcast.NewHub()
	ctx := t.Context()

	first := hub.Subscribe("admin", 4)
	second := hub.Subscribe("admin", 4)
	other := hub.Subscribe("partner.x", 4)
	defer first.Close()
	defer second.Close()
	defer other.Close()

	hub.Publish(ctx, event("admin", "delivery.offered"))

	for _, sub := range []*broadcast.Subscription{first, second} {
		select {
		case got := <-sub.Events():
			assert.Equal(t, "delivery.offered", got.Name)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}

	select {
	case <-other.Events():
		t.Fatal("event leaked to another topic")
	default:
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	hub := broadcast.NewHub()
	hub.Publish(t.Context(), event("admin", "delivery.offered"))
	assert.Zero(t, hub.SubscriberCount("admin"))
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := broadcast.NewHub()
	ctx := t.Context()

	sub := hub.Subscribe("admin", 2)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 10 {
			hub.Publish(ctx, event("admin", "e"))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a full subscriber")
	}

	// only the buffered events survive
	assert.Len(t, sub.Events(), 2)
}

func TestCloseDetachesAndClosesChannel(t *testing.T) {
	hub := broadcast.NewHub()

	sub := hub.Subscribe("admin", 4)
	require.Equal(t, 1, hub.SubscriberCount("admin"))

	sub.Close()
	sub.Close() // idempotent

	assert.Zero(t, hub.SubscriberCount("admin"))

	_, open := <-sub.Events()
	assert.False(t, open)
}

func TestConcurrentSubscribePublishClose(t *testing.T) {
	hub := broadcast.NewHub()
	ctx := t.Context()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				sub := hub.Subscribe("admin", 1)
				hub.Publish(ctx, event("admin", "e"))
				sub.Close()
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, hub.SubscriberCount("admin"))
}

func TestCanSubscribe(t *testing.T) {
	partnerID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	admin := ports.Identity{Role: ports.RoleAdmin}
	courier := ports.Identity{Role: ports.RolePartner, SubjectID: partnerID}
	customer := ports.Identity{Role: ports.RoleCustomer, SubjectID: orderID}

	assert.True(t, broadcast.CanSubscribe(admin, ports.TopicAdmin))
	assert.True(t, broadcast.CanSubscribe(admin, ports.PartnerTopic(partnerID.String())))

	assert.True(t, broadcast.CanSubscribe(courier, ports.PartnerTopic(partnerID.String())))
	assert.False(t, broadcast.CanSubscribe(courier, ports.TopicAdmin))
	assert.False(t, broadcast.CanSubscribe(courier, ports.PartnerTopic(kernel.NewUUID().String())))

	assert.True(t, broadcast.CanSubscribe(customer, ports.OrderTopic(orderID.String())))
	assert.False(t, broadcast.CanSubscribe(customer, ports.OrderTopic(kernel.NewUUID().String())))
	assert.False(t, broadcast.CanSubscribe(ports.Identity{}, ports.TopicAdmin))
}

func TestTopicFor(t *testing.T) {
	partnerID := kernel.NewUUID()

	assert.Equal(t, ports.TopicAdmin, broadcast.TopicFor(ports.Identity{Role: ports.RoleAdmin}))
	assert.Equal(t,
		ports.PartnerTopic(partnerID.String()),
		broadcast.TopicFor(ports.Identity{Role: ports.RolePartner, SubjectID: partnerID}),
	)
}
