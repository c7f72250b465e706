package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/tourism-intel/internal/domain"
	"github.com/couchcryptid/tourism-intel/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestWriter(fw *fakeWriter) *Writer {
	return &Writer{
		writer:  fw,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: observability.NewMetricsForTesting(),
	}
}

func TestSerializeToMessage(t *testing.T) {
	p := domain.MonthPoint{City: "Kolkata", MonthIndex: 9, CalendarMonth: 10, Year: 2024, Arrivals: 110000, Revenue: 25e6}

	msg, err := serializeToMessage(p)
	require.NoError(t, err)

	assert.Equal(t, []byte("Kolkata"), msg.Key)
	assert.JSONEq(t,
		`{"city":"Kolkata","month_index":9,"calendar_month":10,"year":2024,"arrivals":110000,"revenue":25000000}`,
		string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "month", msg.Headers[0].Key)
	assert.Equal(t, []byte("2024-10"), msg.Headers[0].Value)
	assert.Equal(t, "month_index", msg.Headers[1].Key)
	assert.Equal(t, []byte("9"), msg.Headers[1].Value)
}

func TestWriter_PublishPoints(t *testing.T) {
	fw := &fakeWriter{}
	w := newTestWriter(fw)

	points := []domain.MonthPoint{
		{City: "Delhi", MonthIndex: 0, CalendarMonth: 1, Year: 2024},
		{City: "Delhi", MonthIndex: 1, CalendarMonth: 2, Year: 2024},
	}
	require.NoError(t, w.PublishPoints(context.Background(), points))

	assert.Len(t, fw.msgs, 2)
	assert.InDelta(t, 2.0, testutil.ToFloat64(w.metrics.MessagesProduced), 0)

	require.NoError(t, w.Close())
	assert.True(t, fw.closed)
}

func TestWriter_PublishPoints_Empty(t *testing.T) {
	fw := &fakeWriter{err: errors.New("must not be called")}
	w := newTestWriter(fw)

	assert.NoError(t, w.PublishPoints(context.Background(), nil))
}

func TestWriter_PublishPoints_Error(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	w := newTestWriter(fw)

	err := w.PublishPoints(context.Background(), []domain.MonthPoint{{City: "Delhi", CalendarMonth: 1, Year: 2024}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.InDelta(t, 0.0, testutil.ToFloat64(w.metrics.MessagesProduced), 0)
}
