// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"flag"
	"io"
	"strings"

	"github.com/ManuGH/wifiqr/internal/config"
	"github.com/ManuGH/wifiqr/internal/daemon"
	"github.com/ManuGH/wifiqr/internal/log"
	"github.com/ManuGH/wifiqr/internal/version"
)

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("wifiqr serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file (YAML)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	path := strings.TrimSpace(*configPath)
	if path == "" {
		path = strings.TrimSpace(config.ParseString(config.EnvPrefix+"CONFIG", ""))
	}

	ctx, stop := daemon.WaitForShutdown()
	defer stop()

	app, err := daemon.Bootstrap(ctx, daemon.Options{
		Version:    version.Version,
		ConfigPath: path,
		LogOutput:  stderr,
	})
	if err != nil {
		logger := log.WithComponent("daemon")
		logger.Error().
			Err(err).
			Str("event", "startup.failed").
			Str("config_path", path).
			Msg("daemon startup failed")
		return exitFailure
	}

	if err := app.Run(ctx); err != nil {
		logger := log.WithComponent("daemon")
		logger.Error().
			Err(err).
			Str("event", "daemon.failed").
			Msg("daemon stopped with error")
		return exitFailure
	}
	return exitOK
}
