// Package kafka mirrors dispatch events onto a Kafka topic for downstream
// consumers (analytics, notifications). The live in-process broadcast hub
// remains the primary delivery path; Kafka is the durable copy.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"dispatch/internal/core/ports"

	"github.com/IBM/sarama"
)

// Producer publishes dispatch events to a single Kafka topic, keyed by the
// logical event topic so per-entity ordering is preserved within a partition.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer connects a synchronous producer to the given brokers
// (comma-separated) and mirrors events onto topic.
func NewProducer(brokerList, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Producer.Return.Successes = true
	config.Net.DialTimeout = 30 * time.Second
	config.Net.ReadTimeout = 30 * time.Second
	config.Net.WriteTimeout = 30 * time.Second

	producer, err := sarama.NewSyncProducer(strings.Split(brokerList, ","), config)
	if err != nil {
		return nil, err
	}

	return &Producer{producer: producer, topic: topic}, nil
}

// NewProducerWithClient wraps an existing sarama producer. Used by tests.
func NewProducerWithClient(producer sarama.SyncProducer, topic string) *Producer {
	return &Producer{producer: producer, topic: topic}
}

// eventJSON is the wire shape of one mirrored event.
type eventJSON struct {
	Topic   string         `json:"topic"`
	Name    string         `json:"name"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Publish mirrors one event. The publisher contract is fire-and-forget, so
// failures are logged and never block the state change that produced the
// event.
func (p *Producer) Publish(ctx context.Context, event ports.Event) {
	raw, err := json.Marshal(eventJSON{
		Topic:   event.Topic,
		Name:    event.Name,
		At:      event.At,
		Payload: event.Payload,
	})
	if err != nil {
		slog.ErrorContext(ctx, "marshal event", "name", event.Name, "error", err)
		return
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Topic),
		Value: sarama.ByteEncoder(raw),
	})
	if err != nil {
		slog.ErrorContext(ctx, "publish event to kafka",
			"topic", event.Topic, "name", event.Name, "error", err)
	}
}

// Close shuts down the underlying producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
