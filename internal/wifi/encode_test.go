// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package wifi

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   Credential
		want string
	}{
		{
			name: "wpa visible",
			in:   Credential{SSID: "HomeNet", Password: "secret123", Mode: ModeWPA},
			want: "WIFI:T:WPA;S:HomeNet;P:secret123;;",
		},
		{
			name: "wep visible",
			in:   Credential{SSID: "Legacy", Password: "abcde", Mode: ModeWEP},
			want: "WIFI:T:WEP;S:Legacy;P:abcde;;",
		},
		{
			name: "open hidden",
			in:   Credential{SSID: "Guest", Mode: ModeOpen, Hidden: true},
			want: "WIFI:T:;S:Guest;P:;H:true;",
		},
		{
			name: "open drops password",
			in:   Credential{SSID: "Cafe", Password: "ignored", Mode: ModeOpen},
			want: "WIFI:T:;S:Cafe;P:;;",
		},
		{
			name: "wpa hidden",
			in:   Credential{SSID: "Attic", Password: "pw", Mode: ModeWPA, Hidden: true},
			want: "WIFI:T:WPA;S:Attic;P:pw;H:true;",
		},
		{
			name: "semicolon in ssid",
			in:   Credential{SSID: "Caf;Net", Password: "x", Mode: ModeWPA},
			want: `WIFI:T:WPA;S:Caf\;Net;P:x;;`,
		},
		{
			name: "all delimiters in password",
			in:   Credential{SSID: "Lab", Password: `a\b;c,d:e`, Mode: ModeWPA},
			want: `WIFI:T:WPA;S:Lab;P:a\\b\;c\,d\:e;;`,
		},
		{
			name: "unicode ssid untouched",
			in:   Credential{SSID: "Café Wi-Fi", Password: "pässwörd", Mode: ModeWPA},
			want: "WIFI:T:WPA;S:Café Wi-Fi;P:pässwörd;;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_EmptySSID(t *testing.T) {
	got, err := Encode(Credential{Password: "secret", Mode: ModeWPA})
	require.Error(t, err)
	assert.Empty(t, got)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FieldSSID, verr.Field)
	assert.Equal(t, "network name required", verr.Message)
	assert.ErrorIs(t, err, ErrNetworkNameRequired)
}

func TestEncode_UnknownMode(t *testing.T) {
	_, err := Encode(Credential{SSID: "x", Mode: EncryptionMode("WPA4")})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FieldEncryption, verr.Field)
}

func TestEncode_FieldOrder(t *testing.T) {
	for _, mode := range Modes {
		for _, hidden := range []bool{false, true} {
			got, err := Encode(Credential{SSID: "n", Password: "p", Mode: mode, Hidden: hidden})
			require.NoError(t, err)

			require.True(t, strings.HasPrefix(got, "WIFI:T:"), got)
			ti := strings.Index(got, "T:")
			si := strings.Index(got, ";S:")
			pi := strings.Index(got, ";P:")
			assert.Less(t, ti, si)
			assert.Less(t, si, pi)
			if hidden {
				assert.Greater(t, strings.Index(got, ";H:true;"), pi)
			} else {
				assert.NotContains(t, got, "H:")
				assert.True(t, strings.HasSuffix(got, ";;"), got)
			}
		}
	}
}

func TestEncode_Deterministic(t *testing.T) {
	c := Credential{SSID: "Twice", Password: "same;same", Mode: ModeWEP, Hidden: true}
	first, err := Encode(c)
	require.NoError(t, err)
	second, err := Encode(c)
	require.NoError(t, err)
	assert.Equal(t, []byte(first), []byte(second))
}

func TestParseEncryptionMode(t *testing.T) {
	tests := map[string]EncryptionMode{
		"WPA":    ModeWPA,
		"wpa2":   ModeWPA,
		" WPA3 ": ModeWPA,
		"WEP":    ModeWEP,
		"nopass": ModeOpen,
		"":       ModeOpen,
		"open":   ModeOpen,
		"None":   ModeOpen,
	}
	for raw, want := range tests {
		got, err := ParseEncryptionMode(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseEncryptionMode("TKIP")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestEncryptionMode_Wire(t *testing.T) {
	assert.Equal(t, "WPA", ModeWPA.WireValue())
	assert.Equal(t, "WEP", ModeWEP.WireValue())
	assert.Equal(t, "", ModeOpen.WireValue())
	assert.Equal(t, "nopass", ModeOpen.FormValue())
	assert.Equal(t, "WPA/WPA2/WPA3", ModeWPA.Label())
}
