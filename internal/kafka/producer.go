package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers       []string
	ClientID      string
	MaxRetries    int
	RetryInterval time.Duration
}

// Message is a single record destined for a topic
type Message struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Producer wraps a franz-go client for synchronous event publishing
type Producer struct {
	client *kgo.Client
}

// NewProducer creates a producer and verifies broker connectivity
func NewProducer(ctx context.Context, cfg *ProducerConfig) (*Producer, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "enrollment-api-producer"
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(clientID),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	retryInterval := cfg.RetryInterval
	if retryInterval == 0 {
		retryInterval = 2 * time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryInterval)
		}
		if lastErr = client.Ping(ctx); lastErr == nil {
			return &Producer{client: client}, nil
		}
	}

	client.Close()
	return nil, fmt.Errorf("failed to reach kafka after %d attempts: %w", maxRetries+1, lastErr)
}

// Produce sends a message synchronously
func (p *Producer) Produce(ctx context.Context, msg *Message) error {
	if msg == nil {
		return fmt.Errorf("message is required")
	}

	record := &kgo.Record{
		Topic:     msg.Topic,
		Key:       msg.Key,
		Value:     msg.Value,
		Timestamp: msg.Timestamp,
	}
	for k, v := range msg.Headers {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce to %s: %w", msg.Topic, err)
	}
	return nil
}

// Close flushes and closes the underlying client
func (p *Producer) Close() {
	if p.client != nil {
		p.client.Close()
	}
}
