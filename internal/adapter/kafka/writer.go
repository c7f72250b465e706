package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/tourism-intel/internal/config"
	"github.com/couchcryptid/tourism-intel/internal/domain"
	"github.com/couchcryptid/tourism-intel/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes generated month points to a Kafka topic.
// It implements pipeline.PointPublisher.
type Writer struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// PublishPoints serializes and publishes the points in a single
// WriteMessages call. Points of one city share a key, so they land on one
// partition in month order.
func (w *Writer) PublishPoints(ctx context.Context, points []domain.MonthPoint) error {
	if len(points) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(points))
	for i := range points {
		msg, err := serializeToMessage(points[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish month points: %w", err)
	}
	w.metrics.MessagesProduced.Add(float64(len(msgs)))
	w.logger.Debug("month points published", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a MonthPoint into a Kafka message keyed by city.
func serializeToMessage(p domain.MonthPoint) (kafkago.Message, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize month point: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(p.City),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "month", Value: []byte(p.Date().Format("2006-01"))},
			{Key: "month_index", Value: []byte(strconv.Itoa(p.MonthIndex))},
		},
	}, nil
}
