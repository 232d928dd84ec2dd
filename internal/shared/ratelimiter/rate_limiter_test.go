package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances only when sleep is called.
type fakeClock struct {
	t     time.Time
	slept []time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.t = c.t.Add(d)
}

func newTestLimiter(limit int, interval time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, interval)
	rl.now = clock.now
	rl.sleep = clock.sleep
	rl.lastReset = clock.t
	return rl, clock
}

func TestRateLimiter_WaitIfNeeded(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(2, time.Minute)

	rl.WaitIfNeeded()
	rl.WaitIfNeeded()
	assert.Empty(t, clock.slept, "calls within the limit must not wait")

	clock.t = clock.t.Add(10 * time.Second)
	rl.WaitIfNeeded()
	assert.Equal(t, []time.Duration{50 * time.Second}, clock.slept)

	rl.WaitIfNeeded()
	assert.Len(t, clock.slept, 1, "counter restarts after waiting")
}

func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(1, time.Second)

	rl.WaitIfNeeded()
	clock.t = clock.t.Add(2 * time.Second)
	rl.WaitIfNeeded()

	assert.Empty(t, clock.slept)
}

func TestRateLimiter_Disabled(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		rl.WaitIfNeeded()
	}
	assert.Empty(t, clock.slept)
}
