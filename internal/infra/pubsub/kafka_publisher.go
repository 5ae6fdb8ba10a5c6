package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"

	"acharwala/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

// kafkaPublisher implements EventPublisher on top of a Kafka topic.
type kafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a new Kafka-backed publisher.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) service.EventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return &kafkaPublisher{
		writer: writer,
		logger: logger,
	}
}

// Publish writes the event to the Kafka topic, keyed by event type so
// consumers see each event family in order.
func (p *kafkaPublisher) Publish(ctx context.Context, event *service.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	headers := []kafka.Header{
		{Key: "type", Value: []byte(event.Type)},
	}
	if event.RequestID != "" {
		headers = append(headers, kafka.Header{Key: "request_id", Value: []byte(event.RequestID)})
	}

	msg := kafka.Message{
		Key:     []byte(event.Type),
		Value:   data,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, "write kafka message")
	}

	p.logger.Info("[Kafka] Event published successfully",
		slog.String("type", event.Type),
	)

	return nil
}

// Close flushes and closes the underlying writer.
func (p *kafkaPublisher) Close() error {
	return errors.WithStack(p.writer.Close())
}
