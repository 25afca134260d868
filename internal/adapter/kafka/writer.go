package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quakewatch/internal/config"
	"github.com/couchcryptid/quakewatch/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes event snapshots to a Kafka topic, one message per event.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// eventMessage is the JSON value of a published event.
type eventMessage struct {
	domain.Event
	MagnitudeClass    string    `json:"magnitude_class"`
	SignificanceLevel string    `json:"significance_level"`
	FetchedAt         time.Time `json:"fetched_at"`
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes events and writes them in a single WriteMessages call.
// Keys are event ids, so updates to the same event land on one partition.
func (w *Writer) Publish(ctx context.Context, events []domain.Event, fetchedAt time.Time) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i], fetchedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d events: %w", len(msgs), err)
	}
	w.logger.Debug("snapshot published", "topic", w.writer.Topic, "events", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Event into a Kafka message.
func serializeToMessage(event domain.Event, fetchedAt time.Time) (kafkago.Message, error) {
	class := domain.MagnitudeClass(event.Magnitude)
	data, err := json.Marshal(eventMessage{
		Event:             event,
		MagnitudeClass:    class,
		SignificanceLevel: domain.SignificanceLevel(event.Significance),
		FetchedAt:         fetchedAt.UTC(),
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize earthquake event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "magnitude_class", Value: []byte(class)},
			{Key: "fetched_at", Value: []byte(fetchedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
