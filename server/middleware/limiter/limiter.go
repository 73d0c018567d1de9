// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/addle/l10n/config"
)

const (
	ExpiryDuration  = time.Hour       // How long an idle bucket is kept.
	CleanupInterval = 5 * time.Minute // Minimum time between cleanup runs.
)

// bucket is the token bucket of one client network.
type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter holds the buckets of every client network seen recently.
type Limiter struct {
	rate  rate.Limit
	burst int
	now   func() time.Time

	mu          sync.Mutex
	buckets     map[string]*bucket
	lastCleanup time.Time
}

// New returns a Limiter granting perSecond requests per second with the
// given burst to every client network.
func New(perSecond float64, burst int) *Limiter {
	return &Limiter{
		rate:    rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes a token from the bucket of network. It reports whether the
// request may proceed and how many whole tokens remain.
func (l *Limiter) Allow(network string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanupLocked(now)

	b, ok := l.buckets[network]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[network] = b
	}

	b.lastAccess = now
	allowed := b.limiter.AllowN(now, 1)

	return allowed, max(int(b.limiter.TokensAt(now)), 0)
}

// RetryAfter is how long a drained bucket takes to refill one token.
func (l *Limiter) RetryAfter() time.Duration {
	if l.rate <= 0 {
		return time.Second
	}

	return time.Duration(float64(time.Second) / float64(l.rate))
}

// Len returns the number of tracked networks.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.buckets)
}

// cleanupLocked drops buckets idle for longer than ExpiryDuration, at most
// once per CleanupInterval.
func (l *Limiter) cleanupLocked(now time.Time) {
	if now.Sub(l.lastCleanup) < CleanupInterval {
		return
	}

	l.lastCleanup = now

	removed := 0

	for network, b := range l.buckets {
		if now.Sub(b.lastAccess) > ExpiryDuration {
			delete(l.buckets, network)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().
			Int("removed", removed).
			Int("remaining", len(l.buckets)).
			Msg("limiter cleanup")
	}
}

var global atomic.Pointer[Limiter]

// Init creates the limiter used by [Evaluate] from config.Global.
func Init() {
	global.Store(New(config.Global.Limiter.Rate, config.Global.Limiter.Burst))

	log.Info().
		Float64("rate", config.Global.Limiter.Rate).
		Int("burst", config.Global.Limiter.Burst).
		Msg("Rate limiter enabled")
}
