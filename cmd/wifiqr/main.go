// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command wifiqr turns Wi-Fi credentials into scannable QR codes, either as a
// one-shot CLI or as an HTTP daemon serving the form page.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ManuGH/wifiqr/internal/log"
	"github.com/ManuGH/wifiqr/internal/version"
	"github.com/ManuGH/wifiqr/internal/wifi"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return runServe(nil, stderr)
	}

	switch args[0] {
	case "serve":
		return runServe(args[1:], stderr)
	case "encode":
		return runEncode(args[1:], stdout, stderr)
	case "decode":
		return runDecode(args[1:], stdin, stdout, stderr)
	case "render":
		return runRender(args[1:], stdout, stderr)
	case "copy":
		return runCopy(args[1:], stdout, stderr)
	case "config":
		return runConfigCLI(args[1:], stdout, stderr)
	case "healthcheck":
		return runHealthcheckCLI(args[1:], stdout, stderr)
	case "version", "-version", "--version":
		fmt.Fprintln(stdout, version.String())
		return exitOK
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wifiqr serve [--config config.yaml]")
	fmt.Fprintln(w, "  wifiqr encode --ssid NAME [--password PW] [--encryption WPA|WEP|nopass] [--hidden]")
	fmt.Fprintln(w, "  wifiqr decode [PAYLOAD]            (reads stdin when PAYLOAD is omitted)")
	fmt.Fprintln(w, "  wifiqr render --ssid NAME [...] [--out DIR] [--terminal]")
	fmt.Fprintln(w, "  wifiqr copy --ssid NAME [...]")
	fmt.Fprintln(w, "  wifiqr config validate [--file config.yaml]")
	fmt.Fprintln(w, "  wifiqr healthcheck [--mode ready|live] [--addr 127.0.0.1:8080]")
	fmt.Fprintln(w, "  wifiqr version")
}

// configureCLILogging sets up quiet console logging for one-shot commands.
func configureCLILogging(stderr io.Writer, verbose bool) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log.Configure(log.Config{
		Level:   level,
		Format:  "console",
		Output:  stderr,
		Service: "wifiqr",
		Version: version.Version,
	})
}

// exitCodeFor maps command errors to exit codes; invalid credentials are
// usage errors.
func exitCodeFor(err error) int {
	var valErr *wifi.ValidationError
	if errors.As(err, &valErr) {
		return exitUsage
	}
	return exitFailure
}
