// SPDX-License-Identifier: MIT

package daemon

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ManuGH/wifiqr/internal/config"
)

// Deps contains dependencies required by the daemon Manager.
type Deps struct {
	// Logger is the structured logger for the daemon
	Logger zerolog.Logger

	// Config is the configuration snapshot the listeners are built from
	Config config.AppConfig

	// APIHandler serves the form page and the /api/v1 routes
	APIHandler http.Handler

	// MetricsHandler serves Prometheus metrics on Config.Metrics.Listen (optional)
	MetricsHandler http.Handler
}

// Validate checks if the dependencies are valid.
func (d *Deps) Validate() error {
	if d.Logger.GetLevel() == zerolog.Disabled {
		return ErrMissingLogger
	}
	if d.APIHandler == nil {
		return ErrMissingAPIHandler
	}
	if d.Config.Metrics.Enabled && d.MetricsHandler == nil {
		return ErrMissingMetricsHandler
	}
	return nil
}
