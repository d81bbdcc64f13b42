// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by spans across packages.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"
	HTTPUserAgentKey  = "http.user_agent"

	QREngineKey   = "qr.engine"
	QRFormatKey   = "qr.format"
	QRLevelKey    = "qr.level"
	QRSizeKey     = "qr.size_px"
	QRModulesKey  = "qr.modules"
	QRDurationKey = "qr.duration_ms"

	WifiModeKey   = "wifi.encryption"
	WifiHiddenKey = "wifi.hidden"

	ExportTargetKey = "export.target"

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// RenderAttributes describes a render call. The payload is never attached:
// it carries the network password.
func RenderAttributes(engine, format, level string, size int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(QREngineKey, engine),
		attribute.String(QRFormatKey, format),
		attribute.String(QRLevelKey, level),
		attribute.Int(QRSizeKey, size),
	}
}

// CredentialAttributes carries the non-secret parts of a credential.
func CredentialAttributes(mode string, hidden bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(WifiModeKey, mode),
		attribute.Bool(WifiHiddenKey, hidden),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
