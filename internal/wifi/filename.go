// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package wifi

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const fallbackName = "network"

// Filename returns the suggested download name wifi-<ssid>-qr.png. The SSID is
// NFC-normalized and reduced to a single path element.
func Filename(ssid string) string {
	return "wifi-" + filenameSafe(ssid) + "-qr.png"
}

func filenameSafe(ssid string) string {
	s := norm.NFC.String(ssid)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == 0:
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == ".." {
		return fallbackName
	}
	return s
}
