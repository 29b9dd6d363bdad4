// Package kafka publishes persist events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/recall/pkg/eventstream"
)

// DefaultTopic is used when Config.Topic is empty.
const DefaultTopic = "recall.persisted"

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers are the bootstrap broker addresses (e.g., "localhost:9092").
	Brokers []string

	// Topic receives the events. Defaults to DefaultTopic.
	Topic string

	// WriteTimeout bounds a single publish. Defaults to 10s.
	WriteTimeout time.Duration
}

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes one message per event, keyed by store name so events
// for the same store stay ordered within a partition.
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a Kafka publisher. Connections are opened lazily on
// the first publish.
func NewPublisher(c Config) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker")
	}

	topic := c.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	timeout := c.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Publisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(c.Brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireOne,
			WriteTimeout: timeout,
		},
	}, nil
}

// Publish serializes event as JSON and writes it to the topic.
func (p *Publisher) Publish(ctx context.Context, event *eventstream.PersistEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling persist event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.Store),
		Value: value,
		Time:  event.EmittedAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing persist event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
