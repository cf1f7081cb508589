// Package storage persists contact form submissions. Three interchangeable
// backends implement MessageStore: SQLite (default), a CSV file and MongoDB.
package storage

import (
	"context"
)

// MessageStore is the contact message repository.
// Implementations are safe for concurrent use.
type MessageStore interface {
	// Save appends m.
	Save(ctx context.Context, m Message) error

	// List returns every message in submission order.
	List(ctx context.Context) ([]Message, error)

	// DeleteByTimestamp removes all messages whose timestamp equals ts and
	// returns how many were removed. Zero is not an error.
	DeleteByTimestamp(ctx context.Context, ts string) (int, error)

	Count(ctx context.Context) (int, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Backend names the implementation ("sqlite", "csv", "mongo").
	Backend() string

	Close() error
}

// MetricsRecorder receives per-operation latencies.
type MetricsRecorder interface {
	RecordStoreOperation(backend, op string, seconds float64)
}
