package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/manasranjandas/portfolio-go/internal/config"
	domerrors "github.com/manasranjandas/portfolio-go/internal/errors"
)

// csvHeader is written to new files. Files whose header lacks a column
// are rewritten with it when opened; readers match columns by name.
var csvHeader = []string{"timestamp", "id", "name", "email", "message"}

// CSVStore keeps messages in a single append-only CSV file. Deletes
// rewrite the file through a temporary copy.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

var _ MessageStore = (*CSVStore)(nil)

// OpenCSV prepares path, writing the header when the file does not exist
// or is empty, and upgrading files written with an older header.
func OpenCSV(path string) (*CSVStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	header, err := readHeader(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := writeCSV(path, nil); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	case !slices.Equal(header, csvHeader):
		// Save appends in csvHeader order, so the file must carry it.
		msgs, err := readCSV(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := writeCSV(path, msgs); err != nil {
			return nil, fmt.Errorf("failed to upgrade %s: %w", path, err)
		}
	}
	return &CSVStore{path: path}, nil
}

// readHeader returns the normalised first record of path, or nil for an
// empty file.
func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rec, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, name := range rec {
		rec[i] = normalizeColumn(name)
	}
	return rec, nil
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Path returns the CSV file path.
func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) Backend() string {
	return config.BackendCSV
}

func (s *CSVStore) Save(_ context.Context, m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return domerrors.NewStoreError(s.Backend(), "save", err)
	}

	w := csv.NewWriter(f)
	_ = w.Write(toRecord(m))
	w.Flush()
	err = errors.Join(w.Error(), f.Close())
	return domerrors.NewStoreError(s.Backend(), "save", err)
}

func (s *CSVStore) List(_ context.Context) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, err := readCSV(s.path)
	if err != nil {
		return nil, domerrors.NewStoreError(s.Backend(), "list", err)
	}
	return msgs, nil
}

func (s *CSVStore) DeleteByTimestamp(_ context.Context, ts string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, err := readCSV(s.path)
	if err != nil {
		return 0, domerrors.NewStoreError(s.Backend(), "delete", err)
	}

	kept := msgs[:0]
	for _, m := range msgs {
		if m.Timestamp != ts {
			kept = append(kept, m)
		}
	}
	deleted := len(msgs) - len(kept)
	if deleted == 0 {
		return 0, nil
	}

	if err := writeCSV(s.path, kept); err != nil {
		return 0, domerrors.NewStoreError(s.Backend(), "delete", err)
	}
	return deleted, nil
}

func (s *CSVStore) Count(ctx context.Context) (int, error) {
	msgs, err := s.List(ctx)
	return len(msgs), err
}

func (s *CSVStore) Ping(_ context.Context) error {
	_, err := os.Stat(s.path)
	return domerrors.NewStoreError(s.Backend(), "ping", err)
}

func (s *CSVStore) Close() error {
	return nil
}

func toRecord(m Message) []string {
	return []string{
		flattenField(m.Timestamp),
		flattenField(m.ID),
		flattenField(m.Name),
		flattenField(m.Email),
		flattenField(m.Message),
	}
}

// flattenField keeps every record on one physical line.
func flattenField(s string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
}

func readCSV(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Message{}, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[normalizeColumn(name)] = i
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	msgs := make([]Message, 0)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		msgs = append(msgs, Message{
			ID:        field(rec, "id"),
			Timestamp: field(rec, "timestamp"),
			Name:      field(rec, "name"),
			Email:     field(rec, "email"),
			Message:   field(rec, "message"),
		})
	}
	return msgs, nil
}

// writeCSV replaces path atomically with the header and msgs.
func writeCSV(path string, msgs []Message) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".messages-*.csv")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := errors.Join(WriteCSV(tmp, msgs), tmp.Close()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WriteCSV encodes msgs with the header row in the on-disk format.
func WriteCSV(w io.Writer, msgs []Message) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, m := range msgs {
		_ = cw.Write(toRecord(m))
	}
	cw.Flush()
	return cw.Error()
}
