// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/wifiqr/internal/log"
)

func TestWrite(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/qr", nil)
	req = req.WithContext(log.ContextWithRequestID(req.Context(), "req-123"))
	rec := httptest.NewRecorder()

	Write(rec, req, http.StatusUnprocessableEntity, "qr/validation", "Validation Failed", CodeValidationFailed,
		"invalid ssid: network name required", map[string]any{"field": "ssid", "status": 999})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "qr/validation", body["type"])
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.Equal(t, float64(422), body["status"], "reserved extras are ignored")
	assert.Equal(t, "ssid", body["field"])
	assert.Equal(t, "req-123", body[JSONKeyRequestID])
	assert.Equal(t, "/api/v1/qr", body["instance"])
}

func TestWrite_RequestIDFromResponseHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	rec.Header().Set(HeaderRequestID, "from-header")

	Write(rec, req, http.StatusBadRequest, "qr/bad_request", "Bad Request", CodeBadRequest, "", nil)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "from-header", body[JSONKeyRequestID])
	assert.NotContains(t, body, "detail")
}
