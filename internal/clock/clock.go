package clock

import (
	"sync"
	"time"
)

// Clock supplies the single monotonic wall clock every time-gated
// transition reads at call time.
type Clock interface {
	Now() int64 // unix seconds
}

type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// FakeClock is a settable clock for tests.
type FakeClock struct {
	mu  sync.Mutex
	now int64
}

func NewFakeClock(now int64) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *FakeClock) Advance(seconds int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += seconds
}
