package events

import (
	"context"

	"vendora/pkg/kafka"
	kafka_config "vendora/pkg/kafka/config"
	kafka_middleware "vendora/pkg/kafka/middleware"
	"vendora/pkg/logger"
)

// Publisher emits marketplace domain events. Publishing failures are
// reported to the caller's log but never fail the originating mutation:
// the store write is the authoritative outcome.
type Publisher interface {
	Publish(ctx context.Context, eventType string, key string, payload any)
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(cfg *kafka_config.Config, topic, dlqTopic, source string, log *logger.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, topic, dlqTopic)
	if err != nil {
		return nil, err
	}
	if cfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware())
	}
	return &kafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, key string, payload any) {
	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish domain event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher is used when event publishing is disabled by configuration.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, eventType string, key string, payload any) {}

func (NoopPublisher) Close() error { return nil }
