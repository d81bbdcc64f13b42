// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package wifi

import (
	"errors"
	"fmt"
)

// Field names reported by ValidationError.
const (
	FieldSSID       = "ssid"
	FieldEncryption = "encryption"
)

// ErrNetworkNameRequired is wrapped by the ValidationError returned for an empty SSID.
var ErrNetworkNameRequired = errors.New("network name required")

// ValidationError reports a credential that cannot be encoded. Message is safe
// to show to the user as is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseError reports a payload that is not a well formed WIFI: string.
type ParseError struct {
	Reason string
	Offset int
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("parse wifi payload: %s (offset %d)", e.Reason, e.Offset)
	}
	return "parse wifi payload: " + e.Reason
}
