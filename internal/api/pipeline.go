// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"fmt"
	"time"

	"github.com/ManuGH/wifiqr/internal/cache"
	"github.com/ManuGH/wifiqr/internal/config"
	"github.com/ManuGH/wifiqr/internal/ratelimit"
	"github.com/ManuGH/wifiqr/internal/render"
)

// Pipeline is everything a render request needs, built from one config
// snapshot. A reload builds a new Pipeline and swaps it in whole.
type Pipeline struct {
	Renderer     render.Renderer
	Options      render.Options
	Limiter      *ratelimit.Limiter
	MaxBodyBytes int64

	store cache.Cache[*render.Image]
}

// NewPipeline builds the engine, optional image cache and render limiter
// described by cfg.
func NewPipeline(cfg config.AppConfig) (*Pipeline, error) {
	engine, err := render.New(cfg.Render.Engine)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Render.RenderOptions()
	if err != nil {
		return nil, fmt.Errorf("render options: %w", err)
	}

	p := &Pipeline{
		Renderer:     engine,
		Options:      opts,
		Limiter:      ratelimit.New(ratelimit.FromRate(cfg.Render.RatePerSecond, cfg.Render.Burst)),
		MaxBodyBytes: cfg.API.MaxBodyBytes,
		store:        cache.NewNoOp[*render.Image](),
	}

	if cfg.Cache.Enabled {
		p.store = cache.NewMemory[*render.Image](cache.Options{
			CleanupInterval: cleanupInterval(cfg.Cache.TTL),
			MaxEntries:      cfg.Cache.MaxEntries,
		})
		p.Renderer = render.WithCache(engine, p.store, cfg.Cache.TTL)
	}
	return p, nil
}

// CacheStats reports image cache counters; zero when caching is disabled.
func (p *Pipeline) CacheStats() cache.Stats {
	return p.store.Stats()
}

// Close stops the cache janitor.
func (p *Pipeline) Close() {
	p.store.Stop()
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
