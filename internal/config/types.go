// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// AppConfig is the effective, validated configuration.
type AppConfig struct {
	Version   string
	LogLevel  string
	LogFormat string

	API       APIConfig
	Metrics   MetricsConfig
	Render    RenderConfig
	Cache     CacheConfig
	Export    ExportConfig
	Telemetry TelemetryConfig
}

// APIConfig configures the HTTP server that serves the form page and API.
type APIConfig struct {
	Listen          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	CORSOrigins     []string

	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// MetricsConfig configures the separate Prometheus listener.
type MetricsConfig struct {
	Enabled bool
	Listen  string
}

// RenderConfig holds the default image options and the render throughput limit.
type RenderConfig struct {
	Engine     string
	Size       int
	Margin     int
	Level      string
	Foreground string
	Background string
	Format     string

	// RatePerSecond bounds renders process-wide; Burst is the bucket size.
	RatePerSecond float64
	Burst         int
}

// CacheConfig configures the rendered-image cache.
type CacheConfig struct {
	Enabled    bool
	TTL        time.Duration
	MaxEntries int
}

// ExportConfig configures where the CLI writes downloaded images.
type ExportConfig struct {
	Dir string
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
	Environment  string
}

// FileConfig mirrors the YAML file. Pointer fields distinguish "unset" from
// an explicit zero value.
type FileConfig struct {
	LogLevel  string `yaml:"logLevel,omitempty"`
	LogFormat string `yaml:"logFormat,omitempty"`

	API       FileAPIConfig       `yaml:"api,omitempty"`
	Metrics   FileMetricsConfig   `yaml:"metrics,omitempty"`
	Render    FileRenderConfig    `yaml:"render,omitempty"`
	Cache     FileCacheConfig     `yaml:"cache,omitempty"`
	Export    FileExportConfig    `yaml:"export,omitempty"`
	Telemetry FileTelemetryConfig `yaml:"telemetry,omitempty"`
}

type FileAPIConfig struct {
	Listen          string   `yaml:"listen,omitempty"`
	ReadTimeout     string   `yaml:"readTimeout,omitempty"`
	WriteTimeout    string   `yaml:"writeTimeout,omitempty"`
	IdleTimeout     string   `yaml:"idleTimeout,omitempty"`
	ShutdownTimeout string   `yaml:"shutdownTimeout,omitempty"`
	MaxBodyBytes    *int64   `yaml:"maxBodyBytes,omitempty"`
	CORSOrigins     []string `yaml:"corsOrigins,omitempty"`

	RateLimit FileRateLimitConfig `yaml:"rateLimit,omitempty"`
}

type FileRateLimitConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Requests *int   `yaml:"requests,omitempty"`
	Window   string `yaml:"window,omitempty"`
}

type FileMetricsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Listen  string `yaml:"listen,omitempty"`
}

type FileRenderConfig struct {
	Engine        string   `yaml:"engine,omitempty"`
	Size          *int     `yaml:"size,omitempty"`
	Margin        *int     `yaml:"margin,omitempty"`
	Level         string   `yaml:"level,omitempty"`
	Foreground    string   `yaml:"foreground,omitempty"`
	Background    string   `yaml:"background,omitempty"`
	Format        string   `yaml:"format,omitempty"`
	RatePerSecond *float64 `yaml:"ratePerSecond,omitempty"`
	Burst         *int     `yaml:"burst,omitempty"`
}

type FileCacheConfig struct {
	Enabled    *bool  `yaml:"enabled,omitempty"`
	TTL        string `yaml:"ttl,omitempty"`
	MaxEntries *int   `yaml:"maxEntries,omitempty"`
}

type FileExportConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

type FileTelemetryConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
	Environment  string   `yaml:"environment,omitempty"`
}
