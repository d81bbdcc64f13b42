// SPDX-License-Identifier: MIT

// Package daemon provides the core daemon bootstrapping and lifecycle management.
package daemon

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuGH/wifiqr/internal/api"
	"github.com/ManuGH/wifiqr/internal/config"
	"github.com/ManuGH/wifiqr/internal/health"
	"github.com/ManuGH/wifiqr/internal/log"
	"github.com/ManuGH/wifiqr/internal/metrics"
	"github.com/ManuGH/wifiqr/internal/telemetry"
)

// Options configures Bootstrap.
type Options struct {
	// Version is the build version
	Version string

	// ConfigPath is the path to the YAML config file; empty means env + defaults
	ConfigPath string

	// LogOutput overrides the log writer (defaults to stderr)
	LogOutput io.Writer

	// SkipStartupChecks disables the pre-flight checks (tests)
	SkipStartupChecks bool
}

// Bootstrap loads configuration, configures logging and tracing, and wires
// the API server into an App ready to Run. Resources acquired here are
// released by the manager's shutdown hooks.
func Bootstrap(ctx context.Context, opts Options) (*App, error) {
	loader := config.NewLoader(opts.ConfigPath, opts.Version)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  opts.LogOutput,
		Service: "wifiqr",
		Version: opts.Version,
	})
	logger := log.WithComponent("daemon")

	logger.Info().
		Str("version", opts.Version).
		Str("config", loader.Path()).
		Str("listen", cfg.API.Listen).
		Str(log.FieldEngine, cfg.Render.Engine).
		Msg("Starting wifiqr daemon")

	if !opts.SkipStartupChecks {
		if err := health.PerformStartupChecks(ctx, cfg); err != nil {
			return nil, err
		}
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "wifiqr",
		ServiceVersion: opts.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		// Tracing is optional; serve without it.
		logger.Warn().Err(err).Msg("Telemetry initialization failed, continuing without tracing")
		tp = nil
	} else if cfg.Telemetry.Enabled {
		logger.Info().
			Str("endpoint", cfg.Telemetry.Endpoint).
			Float64("sampling_rate", cfg.Telemetry.SamplingRate).
			Msg("Telemetry initialized")
	}

	pipeline, err := api.NewPipeline(cfg)
	if err != nil {
		return nil, fmt.Errorf("build render pipeline: %w", err)
	}

	hm := health.NewManager(opts.Version)
	srv, err := api.New(cfg, api.Deps{Pipeline: pipeline, Health: hm, Version: opts.Version})
	if err != nil {
		pipeline.Close()
		return nil, err
	}
	hm.RegisterChecker(health.CheckerFunc{
		CheckName: "renderer",
		Fn: func(ctx context.Context) health.CheckResult {
			p := srv.Pipeline()
			return health.NewRendererChecker(p.Renderer, p.Options).Check(ctx)
		},
	})
	hm.RegisterChecker(health.NewDirChecker("export_dir", cfg.Export.Dir))

	deps := Deps{
		Logger:     logger,
		Config:     cfg,
		APIHandler: srv.Handler(),
	}
	if cfg.Metrics.Enabled {
		deps.MetricsHandler = metrics.Handler()
	}
	mgr, err := NewManager(deps)
	if err != nil {
		srv.Close()
		return nil, err
	}

	// LIFO: the render pipeline closes before the tracer flushes.
	if tp != nil {
		mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	}
	mgr.RegisterShutdownHook("render_pipeline", func(context.Context) error {
		srv.Close()
		return nil
	})

	holder := config.NewHolder(cfg, loader)
	return NewApp(logger, mgr, holder, srv), nil
}

// WaitForShutdown returns a context cancelled on interrupt/termination signals.
func WaitForShutdown() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
