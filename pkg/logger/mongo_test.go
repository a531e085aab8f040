package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWriter struct {
	mu      sync.Mutex
	batches [][]interface{}
}

func (w *memoryWriter) WriteBatch(_ context.Context, docs []interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches = append(w.batches, docs)
	return nil
}

func (w *memoryWriter) docs() []LogDocument {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []LogDocument
	for _, b := range w.batches {
		for _, d := range b {
			out = append(out, d.(LogDocument))
		}
	}
	return out
}

func TestMongoSink_FansOutAndFlattensAttrs(t *testing.T) {
	out := &memoryWriter{}
	sink := newMongoSink(out, slog.LevelInfo)

	var buf bytes.Buffer
	text := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(fanout{text, sink.Handler()})

	log.With("request_id", "r1").WithGroup("http").Info("served", "status", 200, slog.Group("route", "name", "cart.show"))
	log.Debug("noisy detail")
	sink.Close()

	assert.Contains(t, buf.String(), "msg=served")
	assert.Contains(t, buf.String(), "noisy detail")

	docs := out.docs()
	require.Len(t, docs, 1)
	doc := docs[0]
	assert.Equal(t, "INFO", doc.Level)
	assert.Equal(t, "served", doc.Msg)
	assert.Equal(t, "r1", doc.RequestID)
	assert.EqualValues(t, 200, doc.Attrs["http.status"])
	assert.Equal(t, "cart.show", doc.Attrs["http.route.name"])
	assert.NotContains(t, doc.Attrs, "request_id")
}

func TestMongoSink_CloseFlushesInBatches(t *testing.T) {
	out := &memoryWriter{}
	sink := newMongoSink(out, slog.LevelWarn)
	log := slog.New(sink.Handler())

	for i := 0; i < 120; i++ {
		log.Warn("queue: job failed", "attempt", i)
	}
	log.Info("below the sink level")
	sink.Close()
	sink.Close()

	assert.Len(t, out.docs(), 120)
	out.mu.Lock()
	defer out.mu.Unlock()
	for _, b := range out.batches {
		assert.LessOrEqual(t, len(b), mongoBatchSize)
	}
}

func TestBuildDocument_NoAttrs(t *testing.T) {
	var got LogDocument
	h := &captureHandler{fn: func(r slog.Record) { got = buildDocument(r, nil, nil) }}
	slog.New(h).Error("boom")

	assert.Equal(t, "ERROR", got.Level)
	assert.Nil(t, got.Attrs)
	assert.Empty(t, got.RequestID)
}

type captureHandler struct{ fn func(slog.Record) }

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.fn(r)
	return nil
}
func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }
