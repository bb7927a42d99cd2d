package orderreader

import (
	"context"
	"encoding/json"

	orderreaderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order-reader/v1"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/config"
	"github.com/decent-stuff/decent-cloud-sub001/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Reader represents a Kafka Reader for consuming envelopes from the order intake topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      logger.Logger
}

// NewReader creates a new Kafka reader for consuming messages from the intake topic.
// It returns an implementation of the OrderReader interface.
func NewReader(config config.KafkaConfig, log logger.Logger) Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// logError is a helper method to log errors consistently
func (r Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the Kafka reader.
func (r Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads a message from the intake topic and parses it as an order envelope.
func (r Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.OrderEnvelope, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{Offset: 0}, nil, err
	}

	var envelope orderreaderv1.OrderEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		r.logError(err, "UnmarshalEnvelope")
		return kafka.Message{Offset: 0}, nil, err
	}

	r.logger.Debug("ReadMessage",
		logger.Field{
			Key:   "type",
			Value: envelope.Type,
		},
		logger.Field{
			Key:   "offset",
			Value: msg.Offset,
		},
	)

	envelope.Offset = msg.Offset // Set the intake offset in the envelope

	return msg, &envelope, nil
}

// Close properly closes the Kafka reader.
func (r Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}

// CommitMessages commits the messages to Kafka after processing. The reader
// consumes a fixed partition without a consumer group; progress is tracked by
// the engine's snapshots instead of broker-side commits, so this is a no-op.
func (r Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return nil
}
