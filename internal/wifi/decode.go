// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package wifi

import (
	"fmt"
	"strings"
)

type field struct {
	key   string
	value string
}

// Decode parses a WIFI: payload. Fields may appear in any order, unknown fields
// are ignored and both the ";;" and the single ";" terminator are accepted.
func Decode(payload string) (Credential, error) {
	if len(payload) < len(Scheme) || !strings.EqualFold(payload[:len(Scheme)], Scheme) {
		return Credential{}, &ParseError{Reason: "missing WIFI: prefix", Offset: 0}
	}

	fields, err := splitFields(payload[len(Scheme):], len(Scheme))
	if err != nil {
		return Credential{}, err
	}

	c := Credential{Mode: ModeOpen}
	seenSSID := false
	for _, f := range fields {
		switch strings.ToUpper(f.key) {
		case "T":
			mode, err := ParseEncryptionMode(f.value)
			if err != nil {
				return Credential{}, &ParseError{Reason: fmt.Sprintf("unknown encryption type %q", f.value), Offset: -1}
			}
			c.Mode = mode
		case "S":
			c.SSID = f.value
			seenSSID = true
		case "P":
			c.Password = f.value
		case "H":
			c.Hidden = strings.EqualFold(f.value, "true")
		}
	}

	if !seenSSID || c.SSID == "" {
		return Credential{}, &ParseError{Reason: "missing network name", Offset: -1}
	}
	return c.Normalized(), nil
}

// splitFields tokenizes "K:V;K:V;;" honoring backslash escapes. base is the
// offset of body inside the full payload, used for error reporting.
func splitFields(body string, base int) ([]field, error) {
	var (
		out     []field
		cur     strings.Builder
		key     string
		inValue bool
	)

	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case ch == '\\':
			if i+1 >= len(body) {
				return nil, &ParseError{Reason: "dangling escape", Offset: base + i}
			}
			i++
			cur.WriteByte(body[i])
		case ch == ':' && !inValue:
			key = cur.String()
			if key == "" {
				return nil, &ParseError{Reason: "empty field name", Offset: base + i}
			}
			cur.Reset()
			inValue = true
		case ch == ';':
			if inValue {
				out = append(out, field{key: key, value: cur.String()})
			} else if cur.Len() > 0 {
				return nil, &ParseError{Reason: fmt.Sprintf("field %q has no value", cur.String()), Offset: base + i}
			}
			cur.Reset()
			key = ""
			inValue = false
		default:
			cur.WriteByte(ch)
		}
	}

	if inValue || cur.Len() > 0 {
		return nil, &ParseError{Reason: "unterminated field", Offset: base + len(body)}
	}
	return out, nil
}
