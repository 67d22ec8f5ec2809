package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaBus implements Bus using segmentio/kafka-go. Events are keyed by user
// ID so one user's events stay ordered within a partition.
type KafkaBus struct {
	writer *kafka.Writer
}

// NewKafkaBus creates a bus that writes events to the given topic. Returns
// (nil, nil) when brokers or topic are empty so callers can treat the bus as
// disabled. Call Close when shutting down.
func NewKafkaBus(brokers []string, topic string) (*KafkaBus, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaBus{writer: writer}, nil
}

// Publish serializes the event as JSON and writes it to the topic. A short
// timeout keeps slow brokers from blocking callers indefinitely.
func (b *KafkaBus) Publish(ctx context.Context, e *Event) error {
	if b == nil || b.writer == nil || e == nil {
		return nil
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = b.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(e.UserID),
		Value: payload,
	})
	if err != nil {
		log.Printf("events: kafka publish failed: %v", err)
		return err
	}
	return nil
}

// Close closes the Kafka writer. Safe to call multiple times.
func (b *KafkaBus) Close() error {
	if b == nil || b.writer == nil {
		return nil
	}
	return b.writer.Close()
}
