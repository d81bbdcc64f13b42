// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/wifiqr/internal/log"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader. configPath may be empty.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path returns the config file path (empty for ENV-only configuration).
func (l *Loader) Path() string {
	return l.configPath
}

func (l *Loader) key(name string) string {
	k := EnvPrefix + name
	l.ConsumedEnvKeys[k] = struct{}{}
	return k
}

// Load loads configuration with precedence: ENV > File > Defaults, then validates.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	l.warnUnknownEnvKeys()

	cfg.Version = l.version
	if abs, err := filepath.Abs(cfg.Export.Dir); err == nil {
		cfg.Export.Dir = abs
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}

func mergeFileConfig(cfg *AppConfig, f *FileConfig) error {
	setString(&cfg.LogLevel, f.LogLevel)
	setString(&cfg.LogFormat, f.LogFormat)

	setString(&cfg.API.Listen, f.API.Listen)
	for _, d := range []struct {
		dst *time.Duration
		raw string
		key string
	}{
		{&cfg.API.ReadTimeout, f.API.ReadTimeout, "api.readTimeout"},
		{&cfg.API.WriteTimeout, f.API.WriteTimeout, "api.writeTimeout"},
		{&cfg.API.IdleTimeout, f.API.IdleTimeout, "api.idleTimeout"},
		{&cfg.API.ShutdownTimeout, f.API.ShutdownTimeout, "api.shutdownTimeout"},
		{&cfg.API.RateLimitWindow, f.API.RateLimit.Window, "api.rateLimit.window"},
		{&cfg.Cache.TTL, f.Cache.TTL, "cache.ttl"},
	} {
		if err := setDuration(d.dst, d.raw, d.key); err != nil {
			return err
		}
	}
	setPtr(&cfg.API.MaxBodyBytes, f.API.MaxBodyBytes)
	if len(f.API.CORSOrigins) > 0 {
		cfg.API.CORSOrigins = append([]string(nil), f.API.CORSOrigins...)
	}
	setPtr(&cfg.API.RateLimitEnabled, f.API.RateLimit.Enabled)
	setPtr(&cfg.API.RateLimitRequests, f.API.RateLimit.Requests)

	setPtr(&cfg.Metrics.Enabled, f.Metrics.Enabled)
	setString(&cfg.Metrics.Listen, f.Metrics.Listen)

	setString(&cfg.Render.Engine, f.Render.Engine)
	setPtr(&cfg.Render.Size, f.Render.Size)
	setPtr(&cfg.Render.Margin, f.Render.Margin)
	setString(&cfg.Render.Level, f.Render.Level)
	setString(&cfg.Render.Foreground, f.Render.Foreground)
	setString(&cfg.Render.Background, f.Render.Background)
	setString(&cfg.Render.Format, f.Render.Format)
	setPtr(&cfg.Render.RatePerSecond, f.Render.RatePerSecond)
	setPtr(&cfg.Render.Burst, f.Render.Burst)

	setPtr(&cfg.Cache.Enabled, f.Cache.Enabled)
	setPtr(&cfg.Cache.MaxEntries, f.Cache.MaxEntries)

	setString(&cfg.Export.Dir, os.ExpandEnv(f.Export.Dir))

	setPtr(&cfg.Telemetry.Enabled, f.Telemetry.Enabled)
	setString(&cfg.Telemetry.Exporter, f.Telemetry.Exporter)
	setString(&cfg.Telemetry.Endpoint, f.Telemetry.Endpoint)
	setPtr(&cfg.Telemetry.SamplingRate, f.Telemetry.SamplingRate)
	setString(&cfg.Telemetry.Environment, f.Telemetry.Environment)
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = ParseString(l.key("LOG_LEVEL"), cfg.LogLevel)
	cfg.LogFormat = ParseString(l.key("LOG_FORMAT"), cfg.LogFormat)

	cfg.API.Listen = ParseString(l.key("LISTEN"), cfg.API.Listen)
	cfg.API.ReadTimeout = ParseDuration(l.key("READ_TIMEOUT"), cfg.API.ReadTimeout)
	cfg.API.WriteTimeout = ParseDuration(l.key("WRITE_TIMEOUT"), cfg.API.WriteTimeout)
	cfg.API.IdleTimeout = ParseDuration(l.key("IDLE_TIMEOUT"), cfg.API.IdleTimeout)
	cfg.API.ShutdownTimeout = ParseDuration(l.key("SHUTDOWN_TIMEOUT"), cfg.API.ShutdownTimeout)
	cfg.API.MaxBodyBytes = ParseInt64(l.key("MAX_BODY_BYTES"), cfg.API.MaxBodyBytes)
	cfg.API.CORSOrigins = ParseList(l.key("CORS_ORIGINS"), cfg.API.CORSOrigins)
	cfg.API.RateLimitEnabled = ParseBool(l.key("RATELIMIT_ENABLED"), cfg.API.RateLimitEnabled)
	cfg.API.RateLimitRequests = ParseInt(l.key("RATELIMIT_REQUESTS"), cfg.API.RateLimitRequests)
	cfg.API.RateLimitWindow = ParseDuration(l.key("RATELIMIT_WINDOW"), cfg.API.RateLimitWindow)

	cfg.Metrics.Enabled = ParseBool(l.key("METRICS_ENABLED"), cfg.Metrics.Enabled)
	cfg.Metrics.Listen = ParseString(l.key("METRICS_LISTEN"), cfg.Metrics.Listen)

	cfg.Render.Engine = ParseString(l.key("RENDER_ENGINE"), cfg.Render.Engine)
	cfg.Render.Size = ParseInt(l.key("RENDER_SIZE"), cfg.Render.Size)
	cfg.Render.Margin = ParseInt(l.key("RENDER_MARGIN"), cfg.Render.Margin)
	cfg.Render.Level = ParseString(l.key("RENDER_LEVEL"), cfg.Render.Level)
	cfg.Render.Foreground = ParseString(l.key("RENDER_FOREGROUND"), cfg.Render.Foreground)
	cfg.Render.Background = ParseString(l.key("RENDER_BACKGROUND"), cfg.Render.Background)
	cfg.Render.Format = ParseString(l.key("RENDER_FORMAT"), cfg.Render.Format)
	cfg.Render.RatePerSecond = ParseFloat(l.key("RENDER_RATE"), cfg.Render.RatePerSecond)
	cfg.Render.Burst = ParseInt(l.key("RENDER_BURST"), cfg.Render.Burst)

	cfg.Cache.Enabled = ParseBool(l.key("CACHE_ENABLED"), cfg.Cache.Enabled)
	cfg.Cache.TTL = ParseDuration(l.key("CACHE_TTL"), cfg.Cache.TTL)
	cfg.Cache.MaxEntries = ParseInt(l.key("CACHE_MAX_ENTRIES"), cfg.Cache.MaxEntries)

	cfg.Export.Dir = ParseString(l.key("EXPORT_DIR"), cfg.Export.Dir)

	cfg.Telemetry.Enabled = ParseBool(l.key("TELEMETRY_ENABLED"), cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString(l.key("TELEMETRY_EXPORTER"), cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString(l.key("TELEMETRY_ENDPOINT"), cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = ParseFloat(l.key("TELEMETRY_SAMPLING_RATE"), cfg.Telemetry.SamplingRate)
	cfg.Telemetry.Environment = ParseString(l.key("TELEMETRY_ENVIRONMENT"), cfg.Telemetry.Environment)
}

// UnknownEnvKeys lists WIFIQR_* variables in the environment that the loader
// did not consume; usually typos.
func (l *Loader) UnknownEnvKeys() []string {
	var unknown []string
	for _, kv := range os.Environ() {
		k, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(k, EnvPrefix) {
			continue
		}
		if _, ok := l.ConsumedEnvKeys[k]; !ok && k != EnvConfigPath {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func (l *Loader) warnUnknownEnvKeys() {
	logger := log.WithComponent("config")
	for _, k := range l.UnknownEnvKeys() {
		logger.Warn().
			Str("event", "config.unknown_env").
			Str("key", k).
			Msg("ignoring unknown environment variable")
	}
}

// EnvConfigPath names the variable holding the config file path. It is read
// by the CLI before the loader exists.
const EnvConfigPath = EnvPrefix + "CONFIG"

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, raw, key string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	*dst = d
	return nil
}
