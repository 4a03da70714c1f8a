package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/kafka"
	"go.uber.org/zap"
)

// EventPublisher publishes enrollment lifecycle events
type EventPublisher interface {
	// PublishEnrollmentCompleted emits an event after a successful commit
	PublishEnrollmentCompleted(ctx context.Context, event *domain.EnrollmentEvent) error

	// Close flushes and releases the publisher
	Close()
}

// kafkaEventPublisher publishes events to a Kafka topic
type kafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *zap.Logger
}

// NewKafkaEventPublisher creates a Kafka-backed EventPublisher
func NewKafkaEventPublisher(producer *kafka.Producer, topic string, logger *zap.Logger) EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &kafkaEventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// PublishEnrollmentCompleted serializes the event and produces it keyed by
// class id so per-class ordering is preserved
func (p *kafkaEventPublisher) PublishEnrollmentCompleted(ctx context.Context, event *domain.EnrollmentEvent) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal enrollment event: %w", err)
	}

	msg := &kafka.Message{
		Topic:     p.topic,
		Key:       []byte(event.Key()),
		Value:     value,
		Timestamp: time.Now(),
		Headers: map[string]string{
			"event_type": string(event.EventType),
		},
	}

	if err := p.producer.Produce(ctx, msg); err != nil {
		p.logger.Error("failed to publish enrollment event",
			zap.String("event_type", string(event.EventType)),
			zap.String("class_id", event.ClassID),
			zap.Error(err),
		)
		return err
	}

	p.logger.Debug("published enrollment event",
		zap.String("event_type", string(event.EventType)),
		zap.String("class_id", event.ClassID),
	)
	return nil
}

// Close flushes and closes the underlying producer
func (p *kafkaEventPublisher) Close() {
	if p.producer != nil {
		p.producer.Close()
	}
}

// noopEventPublisher drops events. Used when Kafka is not configured so
// the commit path never depends on broker availability.
type noopEventPublisher struct{}

// NewNoopEventPublisher creates an EventPublisher that discards events
func NewNoopEventPublisher() EventPublisher {
	return &noopEventPublisher{}
}

func (p *noopEventPublisher) PublishEnrollmentCompleted(ctx context.Context, event *domain.EnrollmentEvent) error {
	return nil
}

func (p *noopEventPublisher) Close() {}
