package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/manasranjandas/portfolio-go/internal/config"
	domerrors "github.com/manasranjandas/portfolio-go/internal/errors"
)

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (MessageStore, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath())
	case config.BackendCSV:
		return OpenCSV(cfg.CSVPath())
	case config.BackendMongo:
		return OpenMongo(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	default:
		return nil, fmt.Errorf("%w: %q", domerrors.ErrUnknownBackend, cfg.Backend)
	}
}

// instrumented reports the latency of every store call.
type instrumented struct {
	MessageStore
	rec MetricsRecorder
}

// WithMetrics wraps store so each operation is timed into rec. A nil
// recorder returns store unchanged.
func WithMetrics(store MessageStore, rec MetricsRecorder) MessageStore {
	if rec == nil {
		return store
	}
	return &instrumented{MessageStore: store, rec: rec}
}

func (s *instrumented) observe(op string, start time.Time) {
	s.rec.RecordStoreOperation(s.Backend(), op, time.Since(start).Seconds())
}

func (s *instrumented) Save(ctx context.Context, m Message) error {
	defer s.observe("save", time.Now())
	return s.MessageStore.Save(ctx, m)
}

func (s *instrumented) List(ctx context.Context) ([]Message, error) {
	defer s.observe("list", time.Now())
	return s.MessageStore.List(ctx)
}

func (s *instrumented) DeleteByTimestamp(ctx context.Context, ts string) (int, error) {
	defer s.observe("delete", time.Now())
	return s.MessageStore.DeleteByTimestamp(ctx, ts)
}

func (s *instrumented) Count(ctx context.Context) (int, error) {
	defer s.observe("count", time.Now())
	return s.MessageStore.Count(ctx)
}
