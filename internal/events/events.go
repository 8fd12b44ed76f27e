// Package events publishes queue lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"ledger/internal/domain"
	"ledger/internal/logging"
)

const (
	QueueAdded   = "queue.added"
	QueueUpdated = "queue.updated"
	QueueDeleted = "queue.deleted"
)

// Event is a single queue change. Payload holds the queue after the change, or
// before it for deletions.
type Event struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Payload     json.RawMessage `json:"payload"`
}

// NewQueueEvent wraps q into an event of the given type.
func NewQueueEvent(eventType string, q domain.Queue) (Event, error) {
	payload, err := json.Marshal(q)
	if err != nil {
		return Event{}, fmt.Errorf("encode queue %s: %w", q.ID, err)
	}
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: q.ID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}, nil
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Producer is the part of *kafka.Writer the publisher needs.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes events keyed by queue id so a queue's events stay ordered
// within a partition.
type KafkaPublisher struct {
	logger   *zap.Logger
	producer Producer
	topic    string
}

func NewKafkaPublisher(logger *zap.Logger, producer Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{logger: logging.OrNop(logger).Named("events"), producer: producer, topic: topic}
}

// NewWriter builds a kafka writer for brokers. The caller closes it.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(e.AggregateID),
		Value: e.Payload,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(e.ID)},
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}
	if err := p.producer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish failed", zap.String("event_id", e.ID), zap.String("type", e.Type), zap.Error(err))
		return err
	}
	p.logger.Info("published", zap.String("event_id", e.ID), zap.String("type", e.Type), zap.String("queue_id", e.AggregateID))
	return nil
}
