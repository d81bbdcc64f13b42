// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/wifiqr/internal/config"
	"github.com/ManuGH/wifiqr/internal/version"
)

func runConfigCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stderr)
		return exitOK
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:], stdout, stderr)
	case "dump":
		return runConfigDump(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return exitUsage
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wifiqr config validate [--file|-f config.yaml]")
	fmt.Fprintln(w, "  wifiqr config dump [--file|-f config.yaml]")
}

func loadConfigFlag(name string, args []string, stderr io.Writer) (config.AppConfig, string, int) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return config.AppConfig{}, "", exitUsage
	}

	path := strings.TrimSpace(file)
	cfg, err := config.NewLoader(path, version.Version).Load()
	if err != nil {
		source := path
		if source == "" {
			source = "environment"
		}
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", source, err)
		return config.AppConfig{}, path, exitFailure
	}
	return cfg, path, exitOK
}

func runConfigValidate(args []string, stdout, stderr io.Writer) int {
	_, path, code := loadConfigFlag("wifiqr config validate", args, stderr)
	if code != exitOK {
		return code
	}
	if path == "" {
		path = "environment + defaults"
	}
	fmt.Fprintf(stdout, "✓ %s is valid\n", path)
	return exitOK
}

// runConfigDump prints the effective configuration (defaults + file + env).
func runConfigDump(args []string, stdout, stderr io.Writer) int {
	cfg, _, code := loadConfigFlag("wifiqr config dump", args, stderr)
	if code != exitOK {
		return code
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		fmt.Fprintf(stderr, "Failed to encode JSON: %v\n", err)
		return exitFailure
	}
	return exitOK
}
