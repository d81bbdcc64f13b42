// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ManuGH/wifiqr/internal/render"
)

// ErrNoClipboardBackend means no supported clipboard tool was found for the
// current display session.
var ErrNoClipboardBackend = errors.New("no clipboard backend available")

// ClipboardUnavailableError reports that the image could not be placed on the
// clipboard. It is not fatal; the caller may retry.
type ClipboardUnavailableError struct {
	Backend string
	Err     error
}

func (e *ClipboardUnavailableError) Error() string {
	if e.Backend == "" {
		return "clipboard unavailable: " + e.Err.Error()
	}
	return fmt.Sprintf("clipboard unavailable (%s): %v", e.Backend, e.Err)
}

func (e *ClipboardUnavailableError) Unwrap() error {
	return e.Err
}

// Clipboard places an image on the system clipboard.
type Clipboard interface {
	CopyImage(ctx context.Context, img *render.Image) error
}

// backend is one clipboard tool invocation.
type backend struct {
	name string
	args []string
	// env names the variable that must be set for the tool to reach a display.
	env string
}

var backends = []backend{
	{name: "wl-copy", args: []string{"--type", "image/png"}, env: "WAYLAND_DISPLAY"},
	{name: "xclip", args: []string{"-selection", "clipboard", "-t", "image/png"}, env: "DISPLAY"},
}

// CommandClipboard copies through wl-copy (Wayland) or xclip (X11).
// The hooks default to the os/exec implementations and exist for tests.
type CommandClipboard struct {
	LookPath func(file string) (string, error)
	Getenv   func(key string) string
	Run      func(ctx context.Context, path string, args []string, stdin []byte) error
}

// NewCommandClipboard returns a clipboard backed by the system tools.
func NewCommandClipboard() *CommandClipboard {
	return &CommandClipboard{
		LookPath: exec.LookPath,
		Getenv:   os.Getenv,
		Run:      runCommand,
	}
}

// Backend reports which tool CopyImage would use.
func (c *CommandClipboard) Backend() (string, error) {
	b, _, err := c.resolve()
	return b.name, err
}

func (c *CommandClipboard) resolve() (backend, string, error) {
	for _, b := range backends {
		if c.Getenv(b.env) == "" {
			continue
		}
		p, err := c.LookPath(b.name)
		if err != nil {
			continue
		}
		return b, p, nil
	}
	return backend{}, "", ErrNoClipboardBackend
}

// CopyImage writes img as a single image/png item. SVG images are rejected:
// the clipboard item type is fixed to PNG.
func (c *CommandClipboard) CopyImage(ctx context.Context, img *render.Image) error {
	if img == nil || len(img.Data) == 0 {
		return &ClipboardUnavailableError{Err: errors.New("no image to copy")}
	}
	if img.Format != render.FormatPNG {
		return &ClipboardUnavailableError{Err: fmt.Errorf("unsupported clipboard format %q", img.Format)}
	}

	b, path, err := c.resolve()
	if err != nil {
		return &ClipboardUnavailableError{Err: err}
	}
	if err := c.Run(ctx, path, b.args, img.Data); err != nil {
		return &ClipboardUnavailableError{Backend: b.name, Err: err}
	}
	return nil
}

func runCommand(ctx context.Context, path string, args []string, stdin []byte) error {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
