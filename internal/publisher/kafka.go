package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"video_syncer/internal/domain"
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Kafka publishes new-row notifications keyed by cycle id.
type Kafka struct {
	writer messageWriter
	logger *slog.Logger
}

func NewKafka(cfg KafkaConfig, logger *slog.Logger) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers list is empty")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is empty")
	}

	return &Kafka{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger.With("notifier", "kafka"),
	}, nil
}

func (k *Kafka) Notify(ctx context.Context, rows domain.NewRows) error {
	body, err := json.Marshal(newRowsMessage(rows))
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = k.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(rows.CycleID),
		Value: body,
		Headers: []kafkago.Header{
			{Key: "event", Value: []byte(EventNewRows)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}

	k.logger.Debug("published new rows", "cycle", rows.CycleID, "ids", len(rows.IDs))
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
