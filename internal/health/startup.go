// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ManuGH/wifiqr/internal/config"
	"github.com/ManuGH/wifiqr/internal/export"
	"github.com/ManuGH/wifiqr/internal/log"
	"github.com/ManuGH/wifiqr/internal/render"
)

// PerformStartupChecks validates the environment before the server starts.
func PerformStartupChecks(ctx context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Msg("Running pre-flight startup checks...")

	if err := checkListenAddrs(logger, cfg); err != nil {
		return fmt.Errorf("listen address check failed: %w", err)
	}

	if err := checkWritableDir(cfg.Export.Dir); err != nil {
		return fmt.Errorf("export directory check failed: %w", err)
	}
	logger.Info().Str("path", cfg.Export.Dir).Msg("✓ Export directory is writable")

	if err := checkRenderer(ctx, logger, cfg.Render); err != nil {
		return fmt.Errorf("renderer self-check failed: %w", err)
	}

	checkClipboard(logger)

	logger.Info().Msg("✅ All startup checks passed")
	return nil
}

func checkListenAddrs(logger zerolog.Logger, cfg config.AppConfig) error {
	addrs := map[string]string{"api": cfg.API.Listen}
	if cfg.Metrics.Enabled {
		addrs["metrics"] = cfg.Metrics.Listen
	}
	for name, addr := range addrs {
		_, port, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("invalid %s listen address %q: %w", name, addr, err)
		}
		portNum, err := strconv.Atoi(port)
		if err != nil || portNum < 0 || portNum > 65535 {
			return fmt.Errorf("invalid %s listen port %q in %q", name, port, addr)
		}
		logger.Info().Str("addr", addr).Str("listener", name).Msg("✓ listen address is valid")
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Listen == cfg.API.Listen {
		return fmt.Errorf("api and metrics cannot share listen address %q", cfg.API.Listen)
	}
	return nil
}

func checkRenderer(ctx context.Context, logger zerolog.Logger, rc config.RenderConfig) error {
	r, err := render.New(rc.Engine)
	if err != nil {
		return err
	}
	opts, err := rc.RenderOptions()
	if err != nil {
		return err
	}
	result := NewRendererChecker(r, opts).Check(ctx)
	if result.Status == StatusUnhealthy {
		return fmt.Errorf("%s: %s", result.Message, result.Error)
	}
	logger.Info().Str("engine", r.Name()).Msg("✓ " + result.Message)
	return nil
}

// checkClipboard only warns; the daemon serves images over HTTP and never
// needs the host clipboard.
func checkClipboard(logger zerolog.Logger) {
	backend, err := export.NewCommandClipboard().Backend()
	if err != nil {
		logger.Debug().Err(err).Msg("no clipboard backend on this host (CLI copy unavailable)")
		return
	}
	logger.Info().Str("backend", backend).Msg("✓ Clipboard backend available")
}
