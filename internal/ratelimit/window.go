package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindowCounter caps requests over a rolling window using two fixed
// windows: the previous window's count is weighted by how much of it still
// overlaps the rolling window.
//
//	effective = current + previous * (window - elapsed) / window
//
// A nil counter is unlimited.
type SlidingWindowCounter struct {
	mu          sync.Mutex
	curr        int
	prev        int
	currStart   time.Time
	window      time.Duration
	maxRequests int
	now         func() time.Time
}

// NewSlidingWindowCounter returns nil (unlimited) when maxRequests <= 0.
func NewSlidingWindowCounter(maxRequests int, window time.Duration) *SlidingWindowCounter {
	return newWindowWithClock(maxRequests, window, time.Now)
}

func newWindowWithClock(maxRequests int, window time.Duration, now func() time.Time) *SlidingWindowCounter {
	if maxRequests <= 0 || window <= 0 {
		return nil
	}
	return &SlidingWindowCounter{
		currStart:   now(),
		window:      window,
		maxRequests: maxRequests,
		now:         now,
	}
}

// rotate must be called with mu held.
func (c *SlidingWindowCounter) rotate() {
	elapsed := c.now().Sub(c.currStart)
	if elapsed < c.window {
		return
	}
	passed := int(elapsed / c.window)
	if passed == 1 {
		c.prev = c.curr
	} else {
		c.prev = 0
	}
	c.curr = 0
	c.currStart = c.currStart.Add(time.Duration(passed) * c.window)
}

// effective must be called with mu held.
func (c *SlidingWindowCounter) effective() float64 {
	elapsed := c.now().Sub(c.currStart)
	overlap := float64(c.window-elapsed) / float64(c.window)
	overlap = max(0, min(1, overlap))
	return float64(c.curr) + float64(c.prev)*overlap
}

// Allow counts a request if the quota permits.
func (c *SlidingWindowCounter) Allow() bool {
	if c == nil {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rotate()
	if c.effective() >= float64(c.maxRequests) {
		return false
	}
	c.curr++
	return true
}

// Check reports whether Allow would succeed without counting.
func (c *SlidingWindowCounter) Check() bool {
	if c == nil {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rotate()
	return c.effective() < float64(c.maxRequests)
}

// Consume counts a request if the quota permits.
func (c *SlidingWindowCounter) Consume() {
	_ = c.Allow()
}

// Remaining is the approximate quota left; -1 when unlimited.
func (c *SlidingWindowCounter) Remaining() int {
	if c == nil {
		return -1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rotate()
	return max(0, int(float64(c.maxRequests)-c.effective()))
}
