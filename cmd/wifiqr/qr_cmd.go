// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ManuGH/wifiqr/internal/config"
	"github.com/ManuGH/wifiqr/internal/export"
	"github.com/ManuGH/wifiqr/internal/render"
	"github.com/ManuGH/wifiqr/internal/session"
	"github.com/ManuGH/wifiqr/internal/wifi"
)

// credentialFlags binds the form fields to a FlagSet.
type credentialFlags struct {
	ssid       string
	password   string
	encryption string
	hidden     bool
}

func (c *credentialFlags) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ssid, "ssid", "", "network name (required)")
	fs.StringVar(&c.password, "password", "", "network password (ignored for nopass)")
	fs.StringVar(&c.encryption, "encryption", string(wifi.ModeWPA), "WPA, WEP or nopass")
	fs.BoolVar(&c.hidden, "hidden", false, "network does not broadcast its SSID")
}

func (c *credentialFlags) credential() (wifi.Credential, error) {
	mode, err := wifi.ParseEncryptionMode(c.encryption)
	if err != nil {
		return wifi.Credential{}, err
	}
	cred := wifi.Credential{SSID: c.ssid, Password: c.password, Mode: mode, Hidden: c.hidden}
	return cred, cred.Validate()
}

// renderFlags overrides the configured render options.
type renderFlags struct {
	configPath string
	engine     string
	size       int
	margin     int
	level      string
	format     string
	foreground string
	background string
	invert     bool
}

func (r *renderFlags) bind(fs *flag.FlagSet) {
	fs.StringVar(&r.configPath, "config", "", "config file supplying render defaults")
	fs.StringVar(&r.engine, "engine", "", "render engine: qrcode or rsc")
	fs.IntVar(&r.size, "size", 0, "image size in pixels")
	fs.IntVar(&r.margin, "margin", -1, "quiet zone in modules")
	fs.StringVar(&r.level, "level", "", "error correction level: L, M, Q or H")
	fs.StringVar(&r.format, "format", "", "png or svg")
	fs.StringVar(&r.foreground, "fg", "", "foreground colour (#rrggbb)")
	fs.StringVar(&r.background, "bg", "", "background colour (#rrggbb)")
	fs.BoolVar(&r.invert, "invert", false, "swap foreground and background")
}

// build loads render defaults (config file + env) and applies the flags.
func (r *renderFlags) build() (render.Renderer, render.Options, config.AppConfig, error) {
	cfg, err := config.NewLoader(strings.TrimSpace(r.configPath), "").Load()
	if err != nil {
		return nil, render.Options{}, cfg, fmt.Errorf("load config: %w", err)
	}

	rc := cfg.Render
	if r.engine != "" {
		rc.Engine = r.engine
	}
	if r.size > 0 {
		rc.Size = r.size
	}
	if r.margin >= 0 {
		rc.Margin = r.margin
	}
	if r.level != "" {
		rc.Level = r.level
	}
	if r.format != "" {
		rc.Format = r.format
	}
	if r.foreground != "" {
		rc.Foreground = r.foreground
	}
	if r.background != "" {
		rc.Background = r.background
	}

	engine, err := render.New(rc.Engine)
	if err != nil {
		return nil, render.Options{}, cfg, err
	}
	opts, err := rc.RenderOptions()
	if err != nil {
		return nil, render.Options{}, cfg, err
	}
	if r.invert {
		opts = opts.Invert()
	}
	return engine, opts, cfg, nil
}

func runEncode(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wifiqr encode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cf credentialFlags
	cf.bind(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cred, err := cf.credential()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}
	payload, err := wifi.Encode(cred)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}
	fmt.Fprintln(stdout, payload)
	return exitOK
}

func runDecode(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wifiqr decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print the credential as JSON")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	var payload string
	switch fs.NArg() {
	case 0:
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(stderr, "Error reading stdin: %v\n", err)
			return exitFailure
		}
		payload = strings.TrimRight(line, "\r\n")
	case 1:
		payload = fs.Arg(0)
	default:
		fmt.Fprintln(stderr, "Error: decode takes at most one payload argument")
		return exitUsage
	}

	cred, err := wifi.Decode(payload)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cred); err != nil {
			fmt.Fprintf(stderr, "Failed to encode JSON: %v\n", err)
			return exitFailure
		}
		return exitOK
	}
	fmt.Fprintf(stdout, "SSID:       %s\n", cred.SSID)
	fmt.Fprintf(stdout, "Security:   %s\n", cred.Mode.Label())
	if cred.Mode != wifi.ModeOpen {
		fmt.Fprintf(stdout, "Password:   %s\n", cred.Password)
	}
	fmt.Fprintf(stdout, "Hidden:     %t\n", cred.Hidden)
	return exitOK
}

func runRender(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wifiqr render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cf credentialFlags
	var rf renderFlags
	cf.bind(fs)
	rf.bind(fs)
	outDir := fs.String("out", "", "directory to write the image to (default: export.dir from config)")
	terminal := fs.Bool("terminal", false, "print the code to the terminal instead of writing a file")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	configureCLILogging(stderr, *verbose)

	cred, err := cf.credential()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}

	if *terminal {
		payload, err := wifi.Encode(cred)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCodeFor(err)
		}
		out, err := render.Terminal(payload, rf.invert)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		fmt.Fprint(stdout, out)
		return exitOK
	}

	engine, opts, cfg, err := rf.build()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	dir := *outDir
	if dir == "" {
		dir = cfg.Export.Dir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctrl := newController(engine, opts, export.NewFileExporter(dir), nil, cred)
	defer ctrl.Close()

	if _, err := ctrl.Generate(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}
	path, err := ctrl.Download(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	fmt.Fprintln(stdout, path)
	return exitOK
}

func runCopy(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wifiqr copy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cf credentialFlags
	var rf renderFlags
	cf.bind(fs)
	rf.bind(fs)
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	configureCLILogging(stderr, *verbose)

	cred, err := cf.credential()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}
	// Clipboards only take PNG.
	rf.format = string(render.FormatPNG)
	engine, opts, _, err := rf.build()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ctrl := newController(engine, opts, nil, export.NewCommandClipboard(), cred)
	defer ctrl.Close()

	if _, err := ctrl.Generate(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}
	state, err := ctrl.Copy(ctx)
	if err != nil {
		if state.Notice.Kind == session.NoticeClipboard {
			fmt.Fprintln(stderr, state.Notice.Message)
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	fmt.Fprintln(stdout, "Copied!")
	return exitOK
}

// newController seeds a session with cred the way the form page would.
func newController(r render.Renderer, opts render.Options, exp export.Exporter, clip export.Clipboard, cred wifi.Credential) *session.Controller {
	ctrl := session.NewController(r, opts, exp, clip)
	ctrl.Dispatch(session.SetField{Field: session.FieldSSID, Value: cred.SSID})
	ctrl.Dispatch(session.SetField{Field: session.FieldPassword, Value: cred.Password})
	ctrl.Dispatch(session.SetField{Field: session.FieldEncryption, Value: cred.Mode.String()})
	ctrl.Dispatch(session.SetField{Field: session.FieldHidden, Value: fmt.Sprint(cred.Hidden)})
	return ctrl
}
