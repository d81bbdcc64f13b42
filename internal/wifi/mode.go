// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package wifi

import (
	"fmt"
	"strings"
)

// EncryptionMode selects the authentication type advertised in the T: field.
type EncryptionMode string

const (
	ModeWPA  EncryptionMode = "WPA"
	ModeWEP  EncryptionMode = "WEP"
	ModeOpen EncryptionMode = "OPEN"
)

// Modes lists the supported modes in the order the form offers them.
var Modes = []EncryptionMode{ModeWPA, ModeWEP, ModeOpen}

// ParseEncryptionMode accepts the wire values (WPA, WEP, empty, nopass) as well
// as the labels people actually type (wpa2, wpa3, open, none).
func ParseEncryptionMode(raw string) (EncryptionMode, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "WPA", "WPA2", "WPA3", "WPA/WPA2", "WPA/WPA2/WPA3", "SAE":
		return ModeWPA, nil
	case "WEP":
		return ModeWEP, nil
	case "", "OPEN", "NOPASS", "NONE":
		return ModeOpen, nil
	default:
		return "", &ValidationError{
			Field:   FieldEncryption,
			Message: fmt.Sprintf("unknown encryption mode %q", raw),
		}
	}
}

// Valid reports whether m is one of the supported modes.
func (m EncryptionMode) Valid() bool {
	switch m {
	case ModeWPA, ModeWEP, ModeOpen:
		return true
	}
	return false
}

// WireValue is the value written after "T:". Open networks use the empty string.
func (m EncryptionMode) WireValue() string {
	if m == ModeOpen {
		return ""
	}
	return string(m)
}

// Label is the human readable name shown next to the mode selector.
func (m EncryptionMode) Label() string {
	switch m {
	case ModeWPA:
		return "WPA/WPA2/WPA3"
	case ModeWEP:
		return "WEP"
	case ModeOpen:
		return "No Password"
	default:
		return string(m)
	}
}

// FormValue is the value the form page submits for m.
func (m EncryptionMode) FormValue() string {
	if m == ModeOpen {
		return "nopass"
	}
	return string(m)
}

func (m EncryptionMode) String() string {
	return string(m)
}
