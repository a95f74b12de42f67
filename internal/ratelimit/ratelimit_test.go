package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *clock) {
	t.Helper()
	rl := NewLimiter(Config{CommandsPerMinute: perMinute, CleanupInterval: time.Hour})
	require.NotNil(t, rl)
	t.Cleanup(rl.Stop)
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	rl.now = c.Now
	return rl, c
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	rl := NewLimiter(Config{})
	assert.Nil(t, rl)
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow(42))
	}
	assert.Equal(t, 0, rl.ActiveUsers())
	rl.Stop()
}

func TestAllowWithinWindow(t *testing.T) {
	rl, c := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(42), "command %d", i+1)
	}
	assert.False(t, rl.Allow(42))
	assert.True(t, rl.Allow(7), "other users have their own window")

	c.Advance(59 * time.Second)
	assert.False(t, rl.Allow(42))

	c.Advance(time.Second)
	assert.True(t, rl.Allow(42), "window resets after a minute")
}

func TestCleanupStaleEntries(t *testing.T) {
	rl, c := newTestLimiter(t, 1)

	rl.Allow(1)
	c.Advance(30 * time.Second)
	rl.Allow(2)
	assert.Equal(t, 2, rl.ActiveUsers())

	c.Advance(45 * time.Second)
	rl.cleanupStaleEntries()
	assert.Equal(t, 1, rl.ActiveUsers())
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(Config{CommandsPerMinute: 1})
	rl.Stop()
	rl.Stop()
}
