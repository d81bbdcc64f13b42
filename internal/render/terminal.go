// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package render

import (
	qrcode "github.com/skip2/go-qrcode"
)

// Terminal renders payload as half-block text for display in a terminal.
// inverse swaps dark and light for terminals with a light background.
func Terminal(payload string, inverse bool) (string, error) {
	q, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return "", &EncodingError{Engine: EngineQRCode, Err: err}
	}
	return q.ToSmallString(inverse), nil
}
