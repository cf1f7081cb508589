// Package archive exports stored contact messages to object storage as
// zstd-compressed CSV snapshots.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/manasranjandas/portfolio-go/internal/config"
	domerrors "github.com/manasranjandas/portfolio-go/internal/errors"
	"github.com/manasranjandas/portfolio-go/internal/logger"
	"github.com/manasranjandas/portfolio-go/internal/metrics"
	"github.com/manasranjandas/portfolio-go/internal/r2client"
	"github.com/manasranjandas/portfolio-go/internal/storage"
)

// Export triggers.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

const (
	keySuffix = ".csv.zst"
	lockTTL   = 5 * time.Minute
)

// ErrBusy is returned when another instance holds the export lock.
var ErrBusy = errors.New("archive: export already running")

// ObjectStore is the object storage the archiver writes to.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, opts r2client.PutOptions) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, r2client.ObjectInfo, error)
	List(ctx context.Context, prefix string) ([]r2client.ObjectInfo, error)
}

// Locker serialises exports across instances.
type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Result describes one finished export.
type Result struct {
	Key      string `json:"key"`
	Count    int    `json:"count"`
	RawBytes int    `json:"raw_bytes"`
	Bytes    int64  `json:"bytes"`
}

// Archiver snapshots a MessageStore into an ObjectStore.
type Archiver struct {
	store   storage.MessageStore
	objects ObjectStore
	prefix  string
	lock    Locker
	metrics *metrics.Metrics
	logger  *logger.Logger
	now     func() time.Time
}

// Options are the optional Archiver dependencies.
type Options struct {
	Prefix  string
	Lock    Locker
	Metrics *metrics.Metrics
	Logger  *logger.Logger
}

// New creates an Archiver. A nil archiver is valid and reports
// ErrArchiveDisabled from every method.
func New(store storage.MessageStore, objects ObjectStore, opts Options) *Archiver {
	prefix := strings.Trim(opts.Prefix, "/")
	if prefix == "" {
		prefix = "archives/messages"
	}
	log := opts.Logger
	if log == nil {
		log = logger.New("info")
	}
	return &Archiver{
		store:   store,
		objects: objects,
		prefix:  prefix,
		lock:    opts.Lock,
		metrics: opts.Metrics,
		logger:  log.WithModule("archive"),
		now:     time.Now,
	}
}

// FromConfig connects to R2 when cfg enables it; otherwise it returns nil.
func FromConfig(ctx context.Context, cfg config.R2Config, store storage.MessageStore, m *metrics.Metrics, log *logger.Logger) (*Archiver, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	client, err := r2client.New(ctx, r2client.Config{
		Endpoint:    cfg.R2Endpoint(),
		AccessKeyID: cfg.AccessKeyID,
		SecretKey:   cfg.SecretAccessKey,
		BucketName:  cfg.BucketName,
	})
	if err != nil {
		return nil, err
	}
	prefix := strings.Trim(cfg.ArchivePrefix, "/")
	return New(store, client, Options{
		Prefix:  prefix,
		Lock:    r2client.NewLock(client, prefix+"/.lock", lockTTL),
		Metrics: m,
		Logger:  log,
	}), nil
}

// Prefix returns the key prefix archives are written under.
func (a *Archiver) Prefix() string {
	return a.prefix
}

// Export writes every stored message as one compressed CSV object.
func (a *Archiver) Export(ctx context.Context, trigger string) (Result, error) {
	if a == nil {
		return Result{}, domerrors.ErrArchiveDisabled
	}
	start := time.Now()

	res, err := a.export(ctx)

	status := "success"
	switch {
	case errors.Is(err, ErrBusy):
		status = "skipped"
	case err != nil:
		status = "error"
	}
	if a.metrics != nil {
		a.metrics.RecordArchive(trigger, status, time.Since(start).Seconds(), res.Bytes)
	}

	log := a.logger.WithField("trigger", trigger).
		WithField("duration_ms", time.Since(start).Milliseconds())
	switch status {
	case "success":
		log.WithField("key", res.Key).
			WithField("count", res.Count).
			WithField("bytes", res.Bytes).
			Info("Message archive uploaded")
	case "skipped":
		log.Info("Message archive skipped: another export is running")
	default:
		log.WithError(err).Error("Message archive failed")
	}
	return res, err
}

func (a *Archiver) export(ctx context.Context) (Result, error) {
	if a.lock != nil {
		ok, err := a.lock.Acquire(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("archive: %w", err)
		}
		if !ok {
			return Result{}, ErrBusy
		}
		defer func() {
			if err := a.lock.Release(context.WithoutCancel(ctx)); err != nil {
				a.logger.WithError(err).Warn("Failed to release archive lock")
			}
		}()
	}

	msgs, err := a.store.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("archive: list messages: %w", err)
	}

	var plain bytes.Buffer
	if err := storage.WriteCSV(&plain, msgs); err != nil {
		return Result{}, fmt.Errorf("archive: encode csv: %w", err)
	}
	rawBytes := plain.Len()

	var packed bytes.Buffer
	size, err := r2client.Compress(&packed, &plain)
	if err != nil {
		return Result{}, fmt.Errorf("archive: %w", err)
	}

	key := a.keyFor(a.now())
	_, err = a.objects.Put(ctx, key, &packed, r2client.PutOptions{
		ContentType:     "text/csv",
		ContentEncoding: r2client.ContentEncodingZstd,
		Metadata: map[string]string{
			"messages": strconv.Itoa(len(msgs)),
			"backend":  a.store.Backend(),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("archive: upload: %w", err)
	}

	return Result{Key: key, Count: len(msgs), RawBytes: rawBytes, Bytes: size}, nil
}

// keyFor builds <prefix>/YYYY/MM/DD/messages-<utc time>-<id>.csv.zst.
func (a *Archiver) keyFor(t time.Time) string {
	t = t.UTC()
	name := fmt.Sprintf("messages-%s-%s%s",
		t.Format("20060102T150405Z"), uuid.NewString()[:8], keySuffix)
	return path.Join(a.prefix, t.Format("2006/01/02"), name)
}

// List returns the stored archives, newest first.
func (a *Archiver) List(ctx context.Context) ([]r2client.ObjectInfo, error) {
	if a == nil {
		return nil, domerrors.ErrArchiveDisabled
	}
	objs, err := a.objects.List(ctx, a.prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	archives := make([]r2client.ObjectInfo, 0, len(objs))
	for _, o := range objs {
		if strings.HasSuffix(o.Key, keySuffix) {
			archives = append(archives, o)
		}
	}
	slices.SortFunc(archives, func(x, y r2client.ObjectInfo) int {
		return strings.Compare(y.Key, x.Key)
	})
	return archives, nil
}

// Open streams the decompressed CSV of the archive at key. Keys outside
// the archive prefix are reported as ErrNotFound.
func (a *Archiver) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if a == nil {
		return nil, domerrors.ErrArchiveDisabled
	}
	key = strings.TrimPrefix(key, "/")
	if !strings.HasPrefix(key, a.prefix+"/") || !strings.HasSuffix(key, keySuffix) || strings.Contains(key, "..") {
		return nil, domerrors.ErrNotFound
	}

	body, _, err := a.objects.Get(ctx, key)
	if errors.Is(err, r2client.ErrNotFound) {
		return nil, domerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}

	plain, err := r2client.Decompress(body)
	if err != nil {
		_ = body.Close()
		return nil, fmt.Errorf("archive: %w", err)
	}
	return &stackedCloser{Reader: plain, closers: []io.Closer{plain, body}}, nil
}

// Run exports every interval until ctx is done.
func (a *Archiver) Run(ctx context.Context, interval time.Duration) {
	if a == nil || interval <= 0 {
		return
	}
	a.logger.WithField("interval", interval.String()).Debug("Archive job started")
	defer a.logger.Debug("Archive job stopped")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, config.ArchiveUpload)
			_, _ = a.Export(runCtx, TriggerScheduled)
			cancel()
		}
	}
}

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
