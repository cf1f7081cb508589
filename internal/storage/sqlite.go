package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver for database/sql

	"github.com/manasranjandas/portfolio-go/internal/config"
	domerrors "github.com/manasranjandas/portfolio-go/internal/errors"
)

// MemoryPath opens a private in-memory database, used by tests.
const MemoryPath = ":memory:"

const slowQueryThreshold = 100 * time.Millisecond

// SQLiteStore keeps messages in a single SQLite table.
type SQLiteStore struct {
	conn *sql.DB
	path string
}

var _ MessageStore = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(4)
		conn.SetMaxIdleConns(2)
	}
	conn.SetConnMaxLifetime(config.DatabaseConnMaxLifetime)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", config.DatabaseBusyTimeout.Milliseconds()),
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{conn: conn, path: path}, nil
}

func initSchema(ctx context.Context, conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			timestamp TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp)`,
	}
	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Backend() string {
	return config.BackendSQLite
}

func (s *SQLiteStore) Save(ctx context.Context, m Message) error {
	start := time.Now()
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO messages (id, timestamp, name, email, message) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Timestamp, m.Name, m.Email, m.Message)
	s.observe(ctx, "save", start, err)
	return domerrors.NewStoreError(s.Backend(), "save", err)
}

func (s *SQLiteStore) List(ctx context.Context) ([]Message, error) {
	start := time.Now()
	msgs, err := s.list(ctx)
	s.observe(ctx, "list", start, err)
	if err != nil {
		return nil, domerrors.NewStoreError(s.Backend(), "list", err)
	}
	return msgs, nil
}

func (s *SQLiteStore) list(ctx context.Context) ([]Message, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, timestamp, name, email, message FROM messages ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	msgs := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Timestamp, &m.Name, &m.Email, &m.Message); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *SQLiteStore) DeleteByTimestamp(ctx context.Context, ts string) (int, error) {
	start := time.Now()
	res, err := s.conn.ExecContext(ctx, `DELETE FROM messages WHERE timestamp = ?`, ts)
	var n int64
	if err == nil {
		n, err = res.RowsAffected()
	}
	s.observe(ctx, "delete", start, err)
	if err != nil {
		return 0, domerrors.NewStoreError(s.Backend(), "delete", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, domerrors.NewStoreError(s.Backend(), "count", err)
	}
	return n, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return domerrors.NewStoreError(s.Backend(), "ping", s.conn.PingContext(ctx))
}

func (s *SQLiteStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *SQLiteStore) observe(ctx context.Context, op string, start time.Time, err error) {
	if err != nil {
		slog.ErrorContext(ctx, "database operation failed",
			"backend", s.Backend(),
			"operation", op,
			"error", err)
		return
	}
	if d := time.Since(start); d > slowQueryThreshold {
		slog.WarnContext(ctx, "slow database operation",
			"backend", s.Backend(),
			"operation", op,
			"duration_ms", d.Milliseconds())
	}
}
