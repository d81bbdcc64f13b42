// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package render

import (
	"context"
	"strconv"
	"time"

	"github.com/ManuGH/wifiqr/internal/cache"
	"github.com/ManuGH/wifiqr/internal/metrics"
)

type cachedRenderer struct {
	next  Renderer
	store cache.Cache[*Image]
	ttl   time.Duration
}

// WithCache wraps next so identical payload and options are rendered once
// per ttl. Cached images are shared; callers must not modify Image.Data.
func WithCache(next Renderer, store cache.Cache[*Image], ttl time.Duration) Renderer {
	return &cachedRenderer{next: next, store: store, ttl: ttl}
}

func (c *cachedRenderer) Name() string { return c.next.Name() }

func (c *cachedRenderer) Render(ctx context.Context, payload string, opts Options) (*Image, error) {
	if err := opts.Validate(); err != nil {
		return c.next.Render(ctx, payload, opts)
	}
	key := cacheKey(c.next.Name(), payload, opts)
	if img, ok := c.store.Get(key); ok {
		metrics.RecordCacheLookup(true)
		return img, nil
	}
	metrics.RecordCacheLookup(false)

	img, err := c.next.Render(ctx, payload, opts)
	if err != nil {
		return nil, err
	}
	c.store.Set(key, img, c.ttl)
	return img, nil
}

func cacheKey(engine, payload string, opts Options) string {
	return cache.Key(
		engine,
		payload,
		strconv.Itoa(opts.Size),
		strconv.Itoa(opts.Margin),
		HexColor(opts.Foreground),
		HexColor(opts.Background),
		opts.Level.String(),
		string(opts.Format),
	)
}
