// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/ManuGH/wifiqr/internal/log"
	"github.com/ManuGH/wifiqr/internal/metrics"
	"github.com/ManuGH/wifiqr/internal/ratelimit"
	"github.com/ManuGH/wifiqr/internal/telemetry"
	"github.com/ManuGH/wifiqr/internal/wifi"
	"go.opentelemetry.io/otel/trace"
)

// handleEncode returns the WIFI: payload for a credential.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := decodeJSON(w, r, s.Pipeline().MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cred, err := req.credential()
	if err != nil {
		writeError(w, r, err)
		return
	}
	payload, err := wifi.Encode(cred)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, encodeResponse{Payload: payload})
}

// handleDecode parses a WIFI: payload back into a credential.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := decodeJSON(w, r, s.Pipeline().MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cred, err := wifi.Decode(req.Payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cred)
}

// handleQR renders a credential posted as JSON.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	var req qrRequest
	if err := decodeJSON(w, r, s.Pipeline().MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.serveQR(w, r, req)
}

// handleQRQuery renders a credential passed as query parameters (plain
// HTML form submit).
func (s *Server) handleQRQuery(w http.ResponseWriter, r *http.Request) {
	req, err := qrRequestFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.serveQR(w, r, req)
}

func (s *Server) serveQR(w http.ResponseWriter, r *http.Request, req qrRequest) {
	p := s.Pipeline()
	logger := log.FromContext(r.Context())

	cred, err := req.credential()
	if err != nil {
		metrics.RecordGenerated(metrics.OutcomeValidationError, "unknown")
		writeError(w, r, err)
		return
	}
	mode := cred.Mode.String()
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.CredentialAttributes(mode, cred.Hidden)...)

	payload, err := wifi.Encode(cred)
	if err != nil {
		metrics.RecordGenerated(metrics.OutcomeValidationError, mode)
		writeError(w, r, err)
		return
	}

	opts, err := req.options(p.Options)
	if err != nil {
		metrics.RecordGenerated(metrics.OutcomeValidationError, mode)
		writeError(w, r, err)
		return
	}

	if !p.Limiter.Allow(ratelimit.ClientKey(r)) {
		metrics.RecordGenerated(metrics.OutcomeRateLimited, mode)
		writeError(w, r, errRenderThrottled)
		return
	}

	img, err := p.Renderer.Render(r.Context(), payload, opts)
	if err != nil {
		metrics.RecordGenerated(outcomeFor(err), mode)
		logger.Warn().
			Err(err).
			Str("event", "qr.encode_failed").
			Str(log.FieldSSID, cred.SSID).
			Str(log.FieldEngine, p.Renderer.Name()).
			Msg("render failed")
		writeError(w, r, err)
		return
	}
	metrics.RecordGenerated(metrics.OutcomeSuccess, mode)

	download := r.URL.Query().Get("download")
	disposition := "inline"
	if download == "1" || strings.EqualFold(download, "true") {
		disposition = "attachment"
		metrics.RecordExport("download", nil)
	}
	name := strings.TrimSuffix(wifi.Filename(cred.SSID), ".png") + img.Format.Extension()

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		logger.Debug().Err(err).Str("event", "qr.write_failed").Msg("client went away")
		return
	}

	logger.Info().
		Str("event", "qr.generated").
		Str(log.FieldSSID, cred.SSID).
		Str(log.FieldEncryption, mode).
		Bool(log.FieldHidden, cred.Hidden).
		Str(log.FieldEngine, img.Engine).
		Str(log.FieldFormat, string(img.Format)).
		Int(log.FieldSize, img.Size).
		Int(log.FieldModules, img.Modules).
		Msg("qr code served")
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).Error().Err(err).Str("event", "api.encode_error").Msg("failed to encode response")
	}
}
