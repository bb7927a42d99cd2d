package matchpublisher

import (
	"context"

	matchpublisherv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/match-publisher/v1"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/config"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/errors"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher represents a Kafka Publisher for publishing match outcome events.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Logger
}

// NewPublisher creates a new Kafka publisher for publishing outcome events.
func NewPublisher(config config.MatchPublisherConfig, logger logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: config.Brokers,
		Topic:   config.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      logger,
	}
}

// PublishOutcome publishes a match outcome event to the outcome topic.
func (p *Publisher) PublishOutcome(ctx context.Context, event *matchpublisherv1.OutcomeEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.Outcome.BuyOrderID),
		Value: matchpublisherv1.ToBytes(event),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "buyOrderID", Value: event.Outcome.BuyOrderID},
			logger.Field{Key: "status", Value: event.Outcome.Status},
		)
		return errors.NewTracer("failed to publish outcome event").Wrap(err)
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
