// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ManuGH/wifiqr/internal/render"
	"github.com/ManuGH/wifiqr/internal/wifi"
)

var probeCredential = wifi.Credential{SSID: "wifiqr-selfcheck", Password: "selfcheck", Mode: wifi.ModeWPA}

// RendererChecker renders a fixed probe credential to prove the encoder and
// the render engine work end to end.
type RendererChecker struct {
	renderer render.Renderer
	opts     render.Options
	// SlowThreshold marks the check degraded when a render takes longer.
	SlowThreshold time.Duration
}

// NewRendererChecker creates a self-check for r using the given options.
func NewRendererChecker(r render.Renderer, opts render.Options) *RendererChecker {
	return &RendererChecker{renderer: r, opts: opts, SlowThreshold: 250 * time.Millisecond}
}

func (c *RendererChecker) Name() string {
	return "renderer"
}

func (c *RendererChecker) Check(ctx context.Context) CheckResult {
	payload, err := wifi.Encode(probeCredential)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error(), Message: "probe encode failed"}
	}

	start := time.Now()
	img, err := c.renderer.Render(ctx, payload, c.opts)
	elapsed := time.Since(start)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error(), Message: "probe render failed"}
	}
	if len(img.Data) == 0 {
		return CheckResult{Status: StatusUnhealthy, Message: "probe render produced no data"}
	}

	if c.SlowThreshold > 0 && elapsed > c.SlowThreshold {
		return CheckResult{
			Status:  StatusDegraded,
			Message: fmt.Sprintf("%s render took %s", c.renderer.Name(), elapsed.Round(time.Millisecond)),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("%s render ok (%d modules)", c.renderer.Name(), img.Modules),
	}
}

// DirChecker checks that a directory exists and accepts new files.
type DirChecker struct {
	name string
	path string
}

// NewDirChecker creates a checker for a writable directory
func NewDirChecker(name, path string) *DirChecker {
	return &DirChecker{
		name: name,
		path: path,
	}
}

func (c *DirChecker) Name() string {
	return c.name
}

func (c *DirChecker) Check(_ context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{
			Status:  StatusHealthy,
			Message: "not configured (optional)",
		}
	}

	if err := checkWritableDir(c.path); err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   err.Error(),
			Message: c.path,
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: "directory exists and is writable",
	}
}

func checkWritableDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	f, err := os.CreateTemp(path, ".wifiqr-write-test-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %s (error: %v)", path, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(filepath.Clean(name))
	return nil
}
