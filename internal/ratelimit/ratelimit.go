// Package ratelimit throttles chat commands per user.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a fixed-window counter keyed by user id.
type Limiter struct {
	mu           sync.Mutex
	users        map[int64]*window
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
	now          func() time.Time

	perWindow       int
	window          time.Duration
	cleanupInterval time.Duration
}

type window struct {
	start    time.Time
	requests int
}

// Config holds rate limiter configuration
type Config struct {
	CommandsPerMinute int
	CleanupInterval   time.Duration
}

// NewLimiter returns nil when CommandsPerMinute is not positive; a nil
// Limiter allows everything.
func NewLimiter(config Config) *Limiter {
	if config.CommandsPerMinute <= 0 {
		return nil
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &Limiter{
		users:           make(map[int64]*window),
		stopCleanup:     make(chan struct{}),
		now:             time.Now,
		perWindow:       config.CommandsPerMinute,
		window:          time.Minute,
		cleanupInterval: config.CleanupInterval,
	}
	go rl.startCleanup()
	return rl
}

// Allow reports whether userID may run another command in the current window.
func (rl *Limiter) Allow(userID int64) bool {
	if rl == nil {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.users[userID]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.users[userID] = &window{start: now, requests: 1}
		return true
	}

	if w.requests >= rl.perWindow {
		return false
	}
	w.requests++
	return true
}

func (rl *Limiter) startCleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries drops windows that have already expired.
func (rl *Limiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for id, w := range rl.users {
		if w.start.Before(cutoff) {
			delete(rl.users, id)
		}
	}
}

// ActiveUsers returns the number of currently tracked users
func (rl *Limiter) ActiveUsers() int {
	if rl == nil {
		return 0
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.users)
}

// Stop shuts down the cleanup goroutine
func (rl *Limiter) Stop() {
	if rl == nil {
		return
	}
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
