package kafka_test

import (
	"encoding/json"
	"testing"
	"time"

	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/core/ports"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_Publish_MirrorsEventAsJSON(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "order.42", string(key))

		value, err := msg.Value.Encode()
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(value, &decoded))
		assert.Equal(t, "delivery.accepted", decoded["name"])
		assert.Equal(t, "order.42", decoded["topic"])
		return nil
	})

	producer := kafka.NewProducerWithClient(mockProducer, "dispatch.events")
	producer.Publish(t.Context(), ports.Event{
		Topic:   "order.42",
		Name:    "delivery.accepted",
		At:      time.Now(),
		Payload: map[string]any{"delivery_id": "d1"},
	})

	require.NoError(t, mockProducer.Close())
}

func TestProducer_Publish_SendFailure_DoesNotPanic(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := kafka.NewProducerWithClient(mockProducer, "dispatch.events")
	producer.Publish(t.Context(), ports.Event{
		Topic: "admin",
		Name:  "delivery.offered",
		At:    time.Now(),
	})

	require.NoError(t, mockProducer.Close())
}
