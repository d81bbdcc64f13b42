// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package wifi turns network credentials into the WIFI: configuration string
// understood by phone cameras, and parses such strings back.
package wifi

import "fmt"

// Credential is the form state a QR code is generated from. It is never
// persisted.
type Credential struct {
	SSID     string         `json:"ssid"`
	Password string         `json:"password"`
	Mode     EncryptionMode `json:"encryption"`
	Hidden   bool           `json:"hidden"`
}

// Validate checks the invariants Encode relies on.
func (c Credential) Validate() error {
	if c.SSID == "" {
		return &ValidationError{
			Field:   FieldSSID,
			Message: ErrNetworkNameRequired.Error(),
			Err:     ErrNetworkNameRequired,
		}
	}
	if !c.Mode.Valid() {
		return &ValidationError{
			Field:   FieldEncryption,
			Message: fmt.Sprintf("unknown encryption mode %q", string(c.Mode)),
		}
	}
	return nil
}

// Normalized returns c with the password dropped for open networks, which is
// the form Decode yields for an encoded open credential.
func (c Credential) Normalized() Credential {
	if c.Mode == ModeOpen {
		c.Password = ""
	}
	return c
}
