package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects records and can be made to fail or block.
type recorder struct {
	mu      sync.Mutex
	level   slog.Level
	records []slog.Record
	err     error
	gate    chan struct{}
}

func (r *recorder) Enabled(_ context.Context, l slog.Level) bool { return l >= r.level }

func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return r.err
}

func (r *recorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recorder) WithGroup(string) slog.Handler      { return r }

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func newRecord(level slog.Level, msg string) slog.Record {
	return slog.NewRecord(time.Now(), level, msg, 0)
}

func TestMultiHandler(t *testing.T) {
	t.Parallel()

	debug := &recorder{level: slog.LevelDebug}
	errOnly := &recorder{level: slog.LevelError}
	mh := NewMultiHandler(nil, debug, errOnly)
	require.Len(t, mh.handlers, 2)

	ctx := context.Background()
	assert.True(t, mh.Enabled(ctx, slog.LevelDebug))

	require.NoError(t, mh.Handle(ctx, newRecord(slog.LevelInfo, "info")))
	require.NoError(t, mh.Handle(ctx, newRecord(slog.LevelError, "error")))
	assert.Equal(t, 2, debug.count())
	assert.Equal(t, 1, errOnly.count())

	assert.False(t, NewMultiHandler().Enabled(ctx, slog.LevelError))
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	t.Parallel()

	failing := &recorder{err: errors.New("remote down")}
	ok := &recorder{}
	mh := NewMultiHandler(failing, ok)

	err := mh.Handle(context.Background(), newRecord(slog.LevelInfo, "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote down")
	assert.Equal(t, 1, ok.count(), "one failing handler must not starve the others")
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mh := NewMultiHandler(slog.NewJSONHandler(&a, nil), slog.NewJSONHandler(&b, nil))
	slog.New(mh.WithAttrs([]slog.Attr{slog.String("svc", "portfolio")})).Info("hi")

	assert.Contains(t, a.String(), `"svc":"portfolio"`)
	assert.Contains(t, b.String(), `"svc":"portfolio"`)
}

func TestAsyncHandler_DeliversOnShutdown(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	h := NewAsyncHandler(rec, AsyncOptions{QueueSize: 16})
	for range 5 {
		require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelInfo, "m")))
	}

	require.NoError(t, h.Shutdown(context.Background()))
	assert.Equal(t, 5, rec.count())

	// Records after shutdown are ignored, and shutdown is idempotent.
	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelInfo, "late")))
	require.NoError(t, h.Shutdown(context.Background()))
	assert.Equal(t, 5, rec.count())
}

func TestAsyncHandler_DropsWhenFull(t *testing.T) {
	t.Parallel()

	rec := &recorder{gate: make(chan struct{})}
	h := NewAsyncHandler(rec, AsyncOptions{QueueSize: 1})

	// One record may be held by the worker and one buffered; the rest drop.
	for range 10 {
		require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelInfo, "m")))
	}
	assert.GreaterOrEqual(t, h.Dropped(), uint64(8))

	close(rec.gate)
	require.NoError(t, h.Shutdown(context.Background()))
}

func TestAsyncHandler_ShutdownTimeout(t *testing.T) {
	t.Parallel()

	rec := &recorder{gate: make(chan struct{})}
	defer close(rec.gate)
	h := NewAsyncHandler(rec, AsyncOptions{QueueSize: 4})
	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelInfo, "stuck")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.Shutdown(ctx), context.DeadlineExceeded)
}

func TestAsyncHandler_RespectsLevel(t *testing.T) {
	t.Parallel()

	rec := &recorder{level: slog.LevelWarn}
	h := NewAsyncHandler(rec, AsyncOptions{})
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))

	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelInfo, "skip")))
	require.NoError(t, h.Shutdown(context.Background()))
	assert.Zero(t, rec.count())

	var nilHandler *AsyncHandler
	assert.NoError(t, nilHandler.Shutdown(context.Background()))
}
