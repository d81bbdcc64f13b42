// SPDX-License-Identifier: MIT
package daemon

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, listen, exportDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`logLevel: warn
api:
  listen: %q
  shutdownTimeout: 2s
  rateLimit:
    enabled: false
render:
  engine: qrcode
  size: 200
export:
  dir: %q
`, listen, exportDir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBootstrap_ServesAndStops(t *testing.T) {
	listen := reserveListenAddr(t)
	path := writeConfig(t, listen, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := Bootstrap(ctx, Options{Version: "test-1.0.0", ConfigPath: path, LogOutput: io.Discard})
	require.NoError(t, err)

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Run(ctx)
	}()
	require.NoError(t, waitForListen(listen, 3*time.Second))

	status, body := get(t, "http://"+listen+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "test-1.0.0")

	client := &http.Client{Timeout: 2 * time.Second, Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Post("http://"+listen+"/api/v1/qr", "application/json",
		strings.NewReader(`{"ssid":"HomeNet","password":"secret123","encryption":"WPA"}`))
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  engine: bogus\n"), 0o600))

	_, err := Bootstrap(context.Background(), Options{ConfigPath: path, LogOutput: io.Discard})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestBootstrap_StartupCheckFails(t *testing.T) {
	listen := reserveListenAddr(t)
	missing := filepath.Join(t.TempDir(), "does-not-exist", "nested")
	path := writeConfig(t, listen, missing)

	_, err := Bootstrap(context.Background(), Options{ConfigPath: path, LogOutput: io.Discard})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export directory check failed")

	_, err = Bootstrap(context.Background(), Options{ConfigPath: path, LogOutput: io.Discard, SkipStartupChecks: true})
	assert.NoError(t, err)
}

func TestWaitForShutdown(t *testing.T) {
	ctx, stop := WaitForShutdown()
	defer stop()
	select {
	case <-ctx.Done():
		t.Fatal("context cancelled without a signal")
	default:
	}
	stop()
	<-ctx.Done()
}
