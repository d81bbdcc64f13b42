// SPDX-License-Identifier: MIT

// Package ratelimit bounds QR render throughput with token buckets, one
// shared by all callers and one per client.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var (
	rateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifiqr",
			Name:      "render_ratelimited_total",
			Help:      "Total render requests rejected by the render limiter",
		},
		[]string{"limit_type"},
	)
)

// Config holds render rate limiting configuration.
type Config struct {
	// Global limits, shared by every caller.
	GlobalRate  rate.Limit // renders per second
	GlobalBurst int

	// Per-client limits.
	PerClientRate  rate.Limit
	PerClientBurst int

	// Idle per-client buckets older than this are dropped.
	CleanupInterval time.Duration
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() Config {
	return FromRate(20, 10)
}

// FromRate derives a Config from the render.ratePerSecond/render.burst
// settings. Each client gets a quarter of the global budget, never less
// than one render per second.
func FromRate(perSecond float64, burst int) Config {
	clientRate := perSecond / 4
	if clientRate < 1 {
		clientRate = 1
	}
	clientBurst := burst / 2
	if clientBurst < 1 {
		clientBurst = 1
	}
	return Config{
		GlobalRate:      rate.Limit(perSecond),
		GlobalBurst:     burst,
		PerClientRate:   rate.Limit(clientRate),
		PerClientBurst:  clientBurst,
		CleanupInterval: 5 * time.Minute,
	}
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter admits or rejects render requests.
type Limiter struct {
	config Config

	global    *rate.Limiter
	perClient map[string]*clientBucket
	mu        sync.Mutex

	lastCleanup time.Time
	now         func() time.Time
}

// New creates a new rate limiter with the given config.
func New(config Config) *Limiter {
	return &Limiter{
		config:      config,
		global:      rate.NewLimiter(config.GlobalRate, config.GlobalBurst),
		perClient:   make(map[string]*clientBucket),
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Allow reports whether a render for client may proceed now.
func (l *Limiter) Allow(client string) bool {
	if !l.global.Allow() {
		rateLimitExceeded.WithLabelValues("global").Inc()
		return false
	}

	if !l.clientLimiter(client).Allow() {
		rateLimitExceeded.WithLabelValues("per_client").Inc()
		return false
	}

	l.maybeCleanup()
	return true
}

// Wait blocks until the global bucket admits one render or ctx is done.
// Offline callers (the CLI) use it instead of Allow.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.global.Wait(ctx)
}

func (l *Limiter) clientLimiter(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.perClient[client]
	if !exists {
		b = &clientBucket{limiter: rate.NewLimiter(l.config.PerClientRate, l.config.PerClientBurst)}
		l.perClient[client] = b
	}
	b.lastSeen = l.now()
	return b.limiter
}

// maybeCleanup drops client buckets idle for longer than the cleanup interval.
func (l *Limiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastCleanup) < l.config.CleanupInterval {
		return
	}
	for client, b := range l.perClient {
		if now.Sub(b.lastSeen) >= l.config.CleanupInterval {
			delete(l.perClient, client)
		}
	}
	l.lastCleanup = now
}

// Clients returns the number of tracked client buckets.
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.perClient)
}

// ClientKey identifies the caller of r by the host part of its remote
// address. Forwarding headers are not trusted here.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
