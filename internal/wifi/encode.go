// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package wifi

import "strings"

// Scheme is the URI prefix of every payload.
const Scheme = "WIFI:"

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	`:`, `\:`,
)

// Escape backslash-escapes the delimiter characters of the WIFI: grammar.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Encode formats c as
//
//	WIFI:T:<mode>;S:<ssid>;P:<password>;[H:true];
//
// The field order is fixed. The password is left empty for open networks.
func Encode(c Credential) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(Scheme) + len(c.SSID) + len(c.Password) + 24)

	b.WriteString(Scheme)
	b.WriteString("T:")
	b.WriteString(c.Mode.WireValue())
	b.WriteByte(';')

	b.WriteString("S:")
	b.WriteString(Escape(c.SSID))
	b.WriteByte(';')

	b.WriteString("P:")
	if c.Mode != ModeOpen {
		b.WriteString(Escape(c.Password))
	}
	b.WriteByte(';')

	if c.Hidden {
		b.WriteString("H:true")
	}
	b.WriteByte(';')

	return b.String(), nil
}
