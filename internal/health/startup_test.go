// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/wifiqr/internal/config"
)

func TestPerformStartupChecks(t *testing.T) {
	cfg := config.Defaults()
	cfg.Export.Dir = t.TempDir()

	require.NoError(t, PerformStartupChecks(context.Background(), cfg))
}

func TestPerformStartupChecks_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.AppConfig)
		wantErr string
	}{
		{
			name:    "bad listen address",
			mutate:  func(c *config.AppConfig) { c.API.Listen = "nope" },
			wantErr: "listen address check failed",
		},
		{
			name: "metrics shares api listener",
			mutate: func(c *config.AppConfig) {
				c.Metrics.Enabled = true
				c.Metrics.Listen = c.API.Listen
			},
			wantErr: "cannot share listen address",
		},
		{
			name:    "missing export dir",
			mutate:  func(c *config.AppConfig) { c.Export.Dir = filepath.Join(c.Export.Dir, "missing") },
			wantErr: "export directory check failed",
		},
		{
			name:    "unknown engine",
			mutate:  func(c *config.AppConfig) { c.Render.Engine = "bogus" },
			wantErr: "renderer self-check failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			cfg.Export.Dir = t.TempDir()
			tt.mutate(&cfg)

			err := PerformStartupChecks(context.Background(), cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
