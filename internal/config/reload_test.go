// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHolder(t *testing.T, body string) (*Holder, string) {
	t.Helper()
	dir := t.TempDir()
	path := writeConfig(t, dir, body+"export:\n  dir: "+dir+"\n")

	loader := NewLoader(path, "test")
	cfg, err := loader.Load()
	require.NoError(t, err)
	h := NewHolder(cfg, loader)
	h.debounce = 20 * time.Millisecond
	return h, path
}

func TestHolder_Reload(t *testing.T) {
	h, path := newTestHolder(t, "render:\n  size: 320\n")
	assert.Equal(t, 320, h.Get().Render.Size)

	updates := make(chan AppConfig, 1)
	h.RegisterListener(updates)

	require.NoError(t, os.WriteFile(path, []byte("render:\n  size: 400\nexport:\n  dir: "+filepath.Dir(path)+"\n"), 0o600))
	require.NoError(t, h.Reload(context.Background()))

	assert.Equal(t, 400, h.Get().Render.Size)
	select {
	case got := <-updates:
		assert.Equal(t, 400, got.Render.Size)
	default:
		t.Fatal("listener not notified")
	}
}

func TestHolder_ReloadKeepsOldOnError(t *testing.T) {
	h, path := newTestHolder(t, "render:\n  size: 320\n")

	require.NoError(t, os.WriteFile(path, []byte("render:\n  size: 1\n"), 0o600))
	err := h.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, 320, h.Get().Render.Size)
}

func TestHolder_ListenerFullDoesNotBlock(t *testing.T) {
	h, _ := newTestHolder(t, "")

	full := make(chan AppConfig)
	h.RegisterListener(full)

	done := make(chan error, 1)
	go func() { done <- h.Reload(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reload blocked on an unbuffered listener")
	}
}

func TestHolder_WatcherReloadsOnWrite(t *testing.T) {
	h, path := newTestHolder(t, "render:\n  size: 320\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.StartWatcher(ctx))

	require.NoError(t, os.WriteFile(path, []byte("render:\n  size: 480\nexport:\n  dir: "+filepath.Dir(path)+"\n"), 0o600))

	assert.Eventually(t, func() bool {
		return h.Get().Render.Size == 480
	}, 3*time.Second, 20*time.Millisecond)
}

func TestHolder_WatcherDisabledWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	loader := NewLoader("", "test")
	cfg, err := loader.Load()
	require.NoError(t, err)

	h := NewHolder(cfg, loader)
	assert.NoError(t, h.StartWatcher(context.Background()))
}
