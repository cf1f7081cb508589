package r2client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// lease is the JSON body of a lock object.
type lease struct {
	Owner     string    `json:"owner"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Lock is a best-effort mutual exclusion between instances sharing a
// bucket, built on conditional writes. An expired lease may be taken over.
type Lock struct {
	client *Client
	key    string
	ttl    time.Duration
	owner  string
	etag   string
	now    func() time.Time
}

// NewLock creates a lock stored at key, held for at most ttl.
func NewLock(client *Client, key string, ttl time.Duration) *Lock {
	return &Lock{
		client: client,
		key:    key,
		ttl:    ttl,
		owner:  uuid.NewString(),
		now:    time.Now,
	}
}

// Owner returns this instance's lease owner ID.
func (l *Lock) Owner() string {
	return l.owner
}

// Acquire reports whether the lease was obtained.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	etag, err := l.client.Put(ctx, l.key, l.body(), PutOptions{
		ContentType: "application/json",
		IfNoneMatch: true,
	})
	switch {
	case err == nil:
		l.etag = etag
		return true, nil
	case !errors.Is(err, ErrPreconditionFailed):
		return false, fmt.Errorf("acquire lock: %w", err)
	}

	current, currentETag, err := l.read(ctx)
	if errors.Is(err, ErrNotFound) {
		// Released between our write and read; try once more next round.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("acquire lock: %w", err)
	}
	if current != nil && l.now().Before(current.ExpiresAt) {
		return false, nil
	}

	etag, err = l.client.Put(ctx, l.key, l.body(), PutOptions{
		ContentType: "application/json",
		IfMatch:     currentETag,
	})
	switch {
	case err == nil:
		l.etag = etag
		return true, nil
	case errors.Is(err, ErrPreconditionFailed):
		return false, nil
	default:
		return false, fmt.Errorf("acquire lock: take over: %w", err)
	}
}

// Release deletes the lease if this instance still owns it.
func (l *Lock) Release(ctx context.Context) error {
	if l.etag == "" {
		return nil
	}
	defer func() { l.etag = "" }()

	current, _, err := l.read(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if current != nil && current.Owner != l.owner {
		return nil
	}
	return l.client.Delete(ctx, l.key)
}

func (l *Lock) body() io.Reader {
	data, _ := json.Marshal(lease{Owner: l.owner, ExpiresAt: l.now().Add(l.ttl)})
	return bytes.NewReader(data)
}

// read returns the stored lease, or nil when it cannot be parsed.
func (l *Lock) read(ctx context.Context) (*lease, string, error) {
	body, info, err := l.client.Get(ctx, l.key)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", err
	}
	var cur lease
	if err := json.Unmarshal(data, &cur); err != nil {
		return nil, info.ETag, nil
	}
	return &cur, info.ETag, nil
}
