// SPDX-License-Identifier: MIT

// Package middleware provides the HTTP middleware stack of the wifiqr server.
package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/wifiqr/internal/telemetry"
)

// Tracing annotates the request span started by OTelHTTP with the matched
// route and final status, and marks 5xx responses as errors. Without an
// active span it only passes the request through.
func Tracing() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			span := trace.SpanFromContext(r.Context())
			if !span.IsRecording() {
				next.ServeHTTP(w, r)
				return
			}

			rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			span.SetAttributes(telemetry.HTTPAttributes(r.Method, routePattern(r), r.URL.Path, rw.statusCode)...)
			if rw.statusCode >= 500 {
				span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
			}
		})
	}
}
