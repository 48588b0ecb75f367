package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/couchcryptid/energy-load-etl/internal/config"
	"github.com/couchcryptid/energy-load-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	writeAttempts = 5
	writeDelay    = 200 * time.Millisecond
	writeMaxDelay = 5 * time.Second
)

// messageWriter is the subset of *kafkago.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces energy records to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer    messageWriter
	logger    *slog.Logger
	batchSize int
	attempts  uint
	delay     time.Duration
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.BatchSize,
	}
	return newWriter(w, logger, cfg.BatchSize)
}

func newWriter(w messageWriter, logger *slog.Logger, batchSize int) *Writer {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Writer{
		writer:    w,
		logger:    logger,
		batchSize: batchSize,
		attempts:  writeAttempts,
		delay:     writeDelay,
	}
}

// LoadBatch publishes records in chunks of BATCH_SIZE messages. Each chunk is
// retried with exponential backoff before the error is returned.
func (w *Writer) LoadBatch(ctx context.Context, records []domain.EnergyRecord) error {
	for start := 0; start < len(records); start += w.batchSize {
		end := min(start+w.batchSize, len(records))

		msgs := make([]kafkago.Message, 0, end-start)
		for i := start; i < end; i++ {
			msg, err := serializeToMessage(records[i])
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}

		if err := w.write(ctx, msgs); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) write(ctx context.Context, msgs []kafkago.Message) error {
	err := retry.Do(
		func() error {
			return w.writer.WriteMessages(ctx, msgs...)
		},
		retry.Context(ctx),
		retry.Attempts(w.attempts),
		retry.Delay(w.delay),
		retry.MaxDelay(writeMaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			w.logger.Warn("kafka write failed, retrying", "attempt", n+1, "messages", len(msgs), "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("write kafka messages: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an EnergyRecord into a Kafka message keyed by record ID.
func serializeToMessage(rec domain.EnergyRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize energy record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "building_type", Value: []byte(rec.BuildingType)},
			{Key: "ingested_at", Value: []byte(rec.IngestedAt.Format(time.RFC3339))},
		},
	}, nil
}
