package ratelimit

import (
	"sync"
	"time"

	"github.com/manasranjandas/portfolio-go/internal/metrics"
)

// KeyedConfig configures a KeyedLimiter.
type KeyedConfig struct {
	// Name labels the limiter in metrics ("chat", "contact").
	Name string

	Burst      float64 // bucket capacity
	RefillRate float64 // tokens per second

	// DailyLimit caps requests per key over a rolling 24h; 0 disables it.
	DailyLimit int

	// CleanupPeriod is how often idle keys are evicted. 0 disables the
	// background sweep.
	CleanupPeriod time.Duration

	Metrics *metrics.Metrics
}

// KeyedLimiter keeps one bucket (plus optional daily counter) per key,
// typically the client IP.
type KeyedLimiter struct {
	mu      sync.RWMutex
	entries map[string]*keyedEntry
	config  KeyedConfig
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

// keyedEntry's mutex makes the bucket and daily checks one atomic step.
type keyedEntry struct {
	mu     sync.Mutex
	bucket *Limiter
	daily  *SlidingWindowCounter
}

// NewKeyedLimiter starts the cleanup sweep when CleanupPeriod > 0.
// Call Stop when done.
func NewKeyedLimiter(cfg KeyedConfig) *KeyedLimiter {
	kl := &KeyedLimiter{
		entries: make(map[string]*keyedEntry),
		config:  cfg,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	if cfg.CleanupPeriod > 0 {
		go kl.cleanupLoop()
	}
	return kl
}

// Allow reports whether a request for key may proceed and, if so, charges
// it against both the bucket and the daily quota. An empty key is never
// limited.
func (kl *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	entry := kl.entry(key)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.daily.Check() || !entry.bucket.Check() {
		if kl.config.Metrics != nil {
			kl.config.Metrics.RecordRateLimiterDrop(kl.config.Name)
		}
		return false
	}
	entry.daily.Consume()
	entry.bucket.Consume()
	return true
}

// RetryAfter estimates how long key must wait for its next token.
func (kl *KeyedLimiter) RetryAfter(key string) time.Duration {
	kl.mu.RLock()
	entry, ok := kl.entries[key]
	kl.mu.RUnlock()
	if !ok {
		return 0
	}
	return entry.bucket.RetryAfter()
}

// DailyRemaining is key's remaining daily quota, -1 when unlimited.
func (kl *KeyedLimiter) DailyRemaining(key string) int {
	if kl.config.DailyLimit <= 0 {
		return -1
	}
	kl.mu.RLock()
	entry, ok := kl.entries[key]
	kl.mu.RUnlock()
	if !ok {
		return kl.config.DailyLimit
	}
	return entry.daily.Remaining()
}

// ActiveCount is the number of tracked keys.
func (kl *KeyedLimiter) ActiveCount() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.entries)
}

func (kl *KeyedLimiter) entry(key string) *keyedEntry {
	kl.mu.RLock()
	e, ok := kl.entries[key]
	kl.mu.RUnlock()
	if ok {
		return e
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()
	if e, ok = kl.entries[key]; ok {
		return e
	}
	e = &keyedEntry{
		bucket: newWithClock(kl.config.Burst, kl.config.RefillRate, kl.now),
		daily:  newWindowWithClock(kl.config.DailyLimit, 24*time.Hour, kl.now),
	}
	kl.entries[key] = e
	return e
}

// Sweep evicts keys whose bucket is full and whose daily quota is unused,
// and returns how many keys remain.
func (kl *KeyedLimiter) Sweep() int {
	kl.mu.Lock()
	for key, e := range kl.entries {
		if e.bucket.IsFull() && (e.daily == nil || e.daily.Remaining() == kl.config.DailyLimit) {
			delete(kl.entries, key)
		}
	}
	active := len(kl.entries)
	kl.mu.Unlock()

	if kl.config.Metrics != nil {
		kl.config.Metrics.SetRateLimiterActiveKeys(kl.config.Name, active)
	}
	return active
}

func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-kl.stopCh:
			return
		case <-ticker.C:
			kl.Sweep()
		}
	}
}

// Stop ends the cleanup sweep. Safe to call more than once.
func (kl *KeyedLimiter) Stop() {
	kl.once.Do(func() { close(kl.stopCh) })
}
