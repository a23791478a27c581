// Package notifications publishes portal events to a kafka topic. The rest
// of the system treats publishing as fire-and-forget: a broker outage never
// fails the request that produced the event.
package notifications

import (
	"context"
	"encoding/json"
	"time"

	skafka "github.com/segmentio/kafka-go"
)

// DocumentoGeneradoEvent is emitted after a document bundle has been
// generated and its locator persisted.
type DocumentoGeneradoEvent struct {
	SolicitudID int64     `json:"solicitud_id"`
	StorageKey  string    `json:"storage_key"`
	GeneratedBy string    `json:"generated_by"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Writer is the subset of segmentio kafka.Writer we need. This makes the
// producer testable.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Publisher is the interface used by services to publish events.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// KafkaProducer is a thin wrapper around a kafka writer implementing Publisher.
type KafkaProducer struct {
	writer Writer
}

// NewKafkaProducer creates a KafkaProducer that writes to the provided
// broker/topic.
func NewKafkaProducer(brokerURL, topic string) *KafkaProducer {
	w := &skafka.Writer{
		Addr:     skafka.TCP(brokerURL),
		Topic:    topic,
		Balancer: &skafka.LeastBytes{},
	}
	return &KafkaProducer{writer: w}
}

// NewKafkaProducerWithWriter allows injecting a test writer.
func NewKafkaProducerWithWriter(w Writer) *KafkaProducer {
	return &KafkaProducer{writer: w}
}

// Publish marshals the value to JSON and writes a kafka message with the
// given key.
func (p *KafkaProducer) Publish(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	msg := skafka.Message{Key: []byte(key), Value: b}
	return p.writer.WriteMessages(ctx, msg)
}

// Close closes the underlying writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, key string, value interface{}) error { return nil }
func (NopPublisher) Close() error                                                     { return nil }
