// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"
	"time"

	"github.com/ManuGH/wifiqr/internal/render"
	"github.com/ManuGH/wifiqr/internal/validate"
)

// Validate validates an AppConfig using the centralized validation package.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.OneOf("logLevel", strings.ToLower(cfg.LogLevel), validate.LogLevels)
	v.OneOf("logFormat", strings.ToLower(cfg.LogFormat), []string{"json", "console"})

	v.ListenAddr("api.listen", cfg.API.Listen)
	for _, d := range []struct {
		field string
		value time.Duration
	}{
		{"api.readTimeout", cfg.API.ReadTimeout},
		{"api.writeTimeout", cfg.API.WriteTimeout},
		{"api.idleTimeout", cfg.API.IdleTimeout},
		{"api.shutdownTimeout", cfg.API.ShutdownTimeout},
	} {
		if d.value <= 0 {
			v.AddError(d.field, "duration must be positive", d.value)
		}
	}
	if cfg.API.MaxBodyBytes < 1<<10 || cfg.API.MaxBodyBytes > 1<<20 {
		v.AddError("api.maxBodyBytes", "must be between 1KiB and 1MiB", cfg.API.MaxBodyBytes)
	}
	if cfg.API.RateLimitEnabled {
		v.Positive("api.rateLimit.requests", cfg.API.RateLimitRequests)
		if cfg.API.RateLimitWindow <= 0 {
			v.AddError("api.rateLimit.window", "duration must be positive", cfg.API.RateLimitWindow)
		}
	}

	if cfg.Metrics.Enabled {
		v.ListenAddr("metrics.listen", cfg.Metrics.Listen)
		if cfg.Metrics.Listen == cfg.API.Listen {
			v.AddError("metrics.listen", "must differ from api.listen", cfg.Metrics.Listen)
		}
	}

	v.OneOf("render.engine", strings.ToLower(cfg.Render.Engine), []string{render.EngineQRCode, render.EngineRSC})
	v.Range("render.size", cfg.Render.Size, render.MinSize, render.MaxSize)
	v.Range("render.margin", cfg.Render.Margin, 0, render.MaxMargin)
	if _, err := render.ParseLevel(cfg.Render.Level); err != nil {
		v.AddError("render.level", err.Error(), cfg.Render.Level)
	}
	if _, err := render.ParseFormat(cfg.Render.Format); err != nil {
		v.AddError("render.format", err.Error(), cfg.Render.Format)
	}
	for _, c := range []struct {
		field string
		raw   string
	}{
		{"render.foreground", cfg.Render.Foreground},
		{"render.background", cfg.Render.Background},
	} {
		if _, err := render.ParseColor(c.raw); err != nil {
			v.AddError(c.field, err.Error(), c.raw)
		}
	}
	if cfg.Render.RatePerSecond <= 0 {
		v.AddError("render.ratePerSecond", "must be positive", cfg.Render.RatePerSecond)
	}
	v.Positive("render.burst", cfg.Render.Burst)

	if cfg.Cache.Enabled {
		v.Positive("cache.maxEntries", cfg.Cache.MaxEntries)
		if cfg.Cache.TTL <= 0 {
			v.AddError("cache.ttl", "duration must be positive", cfg.Cache.TTL)
		}
	}

	v.Directory("export.dir", cfg.Export.Dir, false)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}

// RenderOptions converts the render section into render.Options. The config
// must already be valid.
func (c RenderConfig) RenderOptions() (render.Options, error) {
	opts := render.DefaultOptions()
	opts.Size = c.Size
	opts.Margin = c.Margin

	var err error
	if opts.Level, err = render.ParseLevel(c.Level); err != nil {
		return opts, err
	}
	if opts.Format, err = render.ParseFormat(c.Format); err != nil {
		return opts, err
	}
	fg, err := render.ParseColor(c.Foreground)
	if err != nil {
		return opts, err
	}
	bg, err := render.ParseColor(c.Background)
	if err != nil {
		return opts, err
	}
	opts.Foreground, opts.Background = fg, bg
	return opts, nil
}
