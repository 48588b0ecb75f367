package kafka

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/energy-load-etl/internal/config"
	"github.com/couchcryptid/energy-load-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	batches  [][]kafkago.Message
	failures int
	err      error
	calls    int
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	f.batches = append(f.batches, msgs)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestWriter(fw *fakeWriter, batchSize int) *Writer {
	w := newWriter(fw, slog.Default(), batchSize)
	w.delay = time.Millisecond
	return w
}

func records(n int) []domain.EnergyRecord {
	recs := make([]domain.EnergyRecord, n)
	for i := range recs {
		recs[i] = domain.EnergyRecord{
			ID:           "hospital-" + string(rune('a'+i)),
			Timestamp:    time.Date(2023, 1, 1, i, 0, 0, 0, time.UTC),
			BuildingType: "hospital",
		}
	}
	return recs
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	rec := domain.EnergyRecord{
		ID:           "hospital-0123456789abcdef",
		Timestamp:    time.Date(2023, 1, 1, 7, 0, 0, 0, time.UTC),
		Loads:        domain.Loads{Main: 12.5},
		BuildingType: "hospital",
		IngestedAt:   now,
	}

	msg, err := serializeToMessage(rec)
	require.NoError(t, err)

	assert.Equal(t, []byte("hospital-0123456789abcdef"), msg.Key)
	assert.Contains(t, string(msg.Value), `"building_type":"hospital"`)
	assert.Contains(t, string(msg.Value), `"main":12.5`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "building_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("hospital"), msg.Headers[0].Value)
	assert.Equal(t, "ingested_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestWriter_LoadBatch_Chunks(t *testing.T) {
	fw := &fakeWriter{}
	w := newTestWriter(fw, 2)

	require.NoError(t, w.LoadBatch(context.Background(), records(5)))

	require.Len(t, fw.batches, 3)
	assert.Len(t, fw.batches[0], 2)
	assert.Len(t, fw.batches[1], 2)
	assert.Len(t, fw.batches[2], 1)
	assert.Equal(t, []byte("hospital-e"), fw.batches[2][0].Key)
}

func TestWriter_LoadBatch_Empty(t *testing.T) {
	fw := &fakeWriter{}
	require.NoError(t, newTestWriter(fw, 10).LoadBatch(context.Background(), nil))
	assert.Zero(t, fw.calls)
}

func TestWriter_LoadBatch_RetriesTransientErrors(t *testing.T) {
	fw := &fakeWriter{failures: 2, err: errors.New("leader not available")}
	w := newTestWriter(fw, 10)

	require.NoError(t, w.LoadBatch(context.Background(), records(3)))
	assert.Equal(t, 3, fw.calls)
	require.Len(t, fw.batches, 1)
}

func TestWriter_LoadBatch_GivesUp(t *testing.T) {
	boom := errors.New("broker down")
	fw := &fakeWriter{failures: 100, err: boom}
	w := newTestWriter(fw, 10)

	err := w.LoadBatch(context.Background(), records(1))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, writeAttempts, fw.calls)
}

func TestWriter_Close(t *testing.T) {
	fw := &fakeWriter{}
	require.NoError(t, newTestWriter(fw, 1).Close())
	assert.True(t, fw.closed)
}

func TestNewWriter(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:   []string{"localhost:9092"},
		KafkaSinkTopic: "building-energy-records",
		BatchSize:      25,
	}
	w := NewWriter(cfg, slog.Default())

	kw, ok := w.writer.(*kafkago.Writer)
	require.True(t, ok)
	assert.Equal(t, "building-energy-records", kw.Topic)
	assert.Equal(t, 25, w.batchSize)
	require.NoError(t, w.Close())
}
