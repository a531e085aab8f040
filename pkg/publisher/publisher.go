// Package publisher sends domain events to an external stream. Kafka is used
// when brokers are configured; otherwise events are written to the log so a
// single-node deployment needs no broker.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shashiranjanraj/shirtshop/pkg/logger"
)

// Publisher delivers one keyed event.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// ── Kafka ────────────────────────────────────────────────────────────────────

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{}, // same order id → same partition
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("publisher: marshal event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("publisher: kafka write: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// ── Log ──────────────────────────────────────────────────────────────────────

type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, key string, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("publisher: marshal event: %w", err)
	}
	logger.WithCtx(ctx).Info("event published", "key", key, "event", string(value))
	return nil
}

func (LogPublisher) Close() error { return nil }

// ── Default ──────────────────────────────────────────────────────────────────

var (
	mu      sync.RWMutex
	current Publisher = LogPublisher{}
)

// New returns a Kafka publisher for brokers, or a LogPublisher when brokers
// is empty.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return LogPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}

// SetDefault installs p as the process-wide publisher and returns the
// previous one.
func SetDefault(p Publisher) Publisher {
	mu.Lock()
	defer mu.Unlock()
	prev := current
	current = p
	return prev
}

// Default returns the process-wide publisher.
func Default() Publisher {
	mu.RLock()
	defer mu.RUnlock()
	return current
}
