// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// Defaults returns the configuration used when neither file nor ENV set a value.
// The render defaults reproduce the original page: 300px, 2-module margin,
// black on white.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:  "info",
		LogFormat: "json",
		API: APIConfig{
			Listen:            ":8080",
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			MaxBodyBytes:      16 << 10,
			RateLimitEnabled:  true,
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9090",
		},
		Render: RenderConfig{
			Engine:        "qrcode",
			Size:          300,
			Margin:        2,
			Level:         "M",
			Foreground:    "#000000",
			Background:    "#ffffff",
			Format:        "png",
			RatePerSecond: 20,
			Burst:         10,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 256,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
			Environment:  "production",
		},
	}
}
