// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"errors"
	"net/http"

	"github.com/ManuGH/wifiqr/internal/api/problem"
	"github.com/ManuGH/wifiqr/internal/log"
	"github.com/ManuGH/wifiqr/internal/metrics"
	"github.com/ManuGH/wifiqr/internal/render"
	"github.com/ManuGH/wifiqr/internal/wifi"
)

var errRenderThrottled = errors.New("render capacity exhausted, retry shortly")

// writeError maps domain errors to problem responses:
//
//	*wifi.ValidationError   422 VALIDATION_FAILED
//	*render.EncodingError   422 ENCODING_FAILED
//	*wifi.ParseError        400 BAD_REQUEST
//	*badRequestError        400 BAD_REQUEST
//	errRenderThrottled      429 RATE_LIMITED
//	anything else           500 INTERNAL_ERROR
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		valErr   *wifi.ValidationError
		encErr   *render.EncodingError
		parseErr *wifi.ParseError
		badReq   *badRequestError
	)

	switch {
	case errors.As(err, &valErr):
		problem.Write(w, r, http.StatusUnprocessableEntity, "qr/validation", "Validation Failed",
			problem.CodeValidationFailed, valErr.Error(), map[string]any{"field": valErr.Field})
	case errors.As(err, &encErr):
		problem.Write(w, r, http.StatusUnprocessableEntity, "qr/encoding", "Encoding Failed",
			problem.CodeEncodingFailed, encErr.Error(), nil)
	case errors.As(err, &parseErr):
		problem.Write(w, r, http.StatusBadRequest, "qr/parse", "Bad Request",
			problem.CodeBadRequest, parseErr.Error(), nil)
	case errors.As(err, &badReq):
		problem.Write(w, r, http.StatusBadRequest, "qr/bad_request", "Bad Request",
			problem.CodeBadRequest, badReq.Error(), nil)
	case errors.Is(err, errRenderThrottled):
		w.Header().Set("Retry-After", "1")
		problem.Write(w, r, http.StatusTooManyRequests, "qr/rate_limited", "Too Many Requests",
			problem.CodeRateLimited, err.Error(), nil)
	default:
		log.FromContext(r.Context()).Error().Err(err).Str("event", "api.internal_error").Msg("request failed")
		problem.Write(w, r, http.StatusInternalServerError, "system/internal", "Internal Server Error",
			problem.CodeInternal, "", nil)
	}
}

func outcomeFor(err error) string {
	var encErr *render.EncodingError
	if errors.As(err, &encErr) {
		return metrics.OutcomeEncodingError
	}
	return metrics.OutcomeError
}
