// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
//
// There is deliberately no password field: credentials are logged by SSID,
// mode and hidden flag only.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Credential fields
	FieldSSID       = "ssid"
	FieldEncryption = "encryption"
	FieldHidden     = "hidden"

	// Render fields
	FieldEngine   = "engine"
	FieldFormat   = "format"
	FieldSize     = "size"
	FieldModules  = "modules"
	FieldCacheHit = "cache_hit"

	// Export fields
	FieldPath    = "path"
	FieldBackend = "backend"

	// HTTP fields
	FieldMethod     = "method"
	FieldRoute      = "route"
	FieldStatus     = "status"
	FieldBytes      = "bytes"
	FieldDurationMS = "duration_ms"
	FieldRemoteAddr = "remote_addr"
)
