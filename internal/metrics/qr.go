// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics provides Prometheus metrics for QR generation.
// Labels stay low-cardinality: no SSIDs, no request IDs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation outcomes.
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeEncodingError   = "encoding_error"
	OutcomeRateLimited     = "rate_limited"
	OutcomeError           = "error"
)

var (
	// QRGeneratedTotal counts generation attempts by outcome and encryption mode.
	QRGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wifiqr_qr_generated_total",
		Help: "Total number of QR generation attempts, by outcome and encryption mode.",
	}, []string{"outcome", "mode"})

	// RenderDuration tracks the time spent inside a render engine.
	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wifiqr_render_duration_seconds",
		Help:    "Time taken to render a QR symbol, by engine and format.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}, []string{"engine", "format"})

	renderCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wifiqr_render_cache_lookups_total",
		Help: "Render cache lookups by result",
	}, []string{"result"}) // result=hit|miss

	exportTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wifiqr_export_total",
		Help: "Image exports by target and outcome",
	}, []string{"target", "outcome"}) // target=file|clipboard|download

	clipboardUnavailable = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wifiqr_clipboard_unavailable_total",
		Help: "Clipboard writes that failed, by backend",
	}, []string{"backend"})

	configReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wifiqr_config_reloads_total",
		Help: "Configuration reload attempts by outcome",
	}, []string{"outcome"})
)

// RecordGenerated counts one generation attempt.
func RecordGenerated(outcome, mode string) {
	QRGeneratedTotal.WithLabelValues(outcome, mode).Inc()
}

// ObserveRender records the duration of a single engine render.
func ObserveRender(engine, format string, d time.Duration) {
	RenderDuration.WithLabelValues(engine, format).Observe(d.Seconds())
}

func RecordCacheLookup(hit bool) {
	if hit {
		renderCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	renderCacheLookups.WithLabelValues("miss").Inc()
}

func RecordExport(target string, err error) {
	exportTotal.WithLabelValues(target, outcomeOf(err)).Inc()
}

func IncClipboardUnavailable(backend string) {
	if backend == "" {
		backend = "none"
	}
	clipboardUnavailable.WithLabelValues(backend).Inc()
}

func RecordConfigReload(err error) {
	configReloads.WithLabelValues(outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
