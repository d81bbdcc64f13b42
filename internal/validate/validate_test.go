// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func checkResult(t *testing.T, v *Validator, wantErr bool) {
	t.Helper()
	if wantErr && v.IsValid() {
		t.Errorf("expected error, got none")
	}
	if !wantErr && !v.IsValid() {
		t.Errorf("unexpected error: %v", v.Err())
	}
}

func TestValidator_ListenAddr(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"all interfaces", ":8080", false},
		{"loopback", "127.0.0.1:8080", false},
		{"localhost", "localhost:9090", false},
		{"ipv6", "[::1]:8080", false},
		{"empty", "", true},
		{"missing port", "127.0.0.1", true},
		{"named port", ":http", true},
		{"port zero", ":0", true},
		{"port overflow", ":70000", true},
		{"hostname", "example.com:80", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.ListenAddr("api.listen", tt.addr)
			checkResult(t, v, tt.wantErr)
		})
	}
}

func TestValidator_Port(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"valid port 80", 80, false},
		{"valid port 65535", 65535, false},
		{"valid port 1", 1, false},
		{"invalid port 0", 0, true},
		{"invalid port -1", -1, true},
		{"invalid port 65536", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Port("testPort", tt.port)
			checkResult(t, v, tt.wantErr)
		})
	}
}

func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"lower bound", 64, false},
		{"upper bound", 4096, false},
		{"default", 300, false},
		{"below", 63, true},
		{"above", 4097, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Range("render.size", tt.value, 64, 4096)
			checkResult(t, v, tt.wantErr)
		})
	}
}

func TestValidator_FloatRange(t *testing.T) {
	v := New()
	v.FloatRange("rate", 0.5, 0, 1)
	checkResult(t, v, false)

	v = New()
	v.FloatRange("rate", 1.5, 0, 1)
	checkResult(t, v, true)
}

func TestValidator_Directory(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		path      string
		mustExist bool
		wantErr   bool
	}{
		{"existing dir", tmpDir, true, false},
		{"existing dir no mustExist", tmpDir, false, false},
		{"nonexistent mustExist", filepath.Join(tmpDir, "missing"), true, true},
		{"nonexistent with parent", filepath.Join(tmpDir, "later"), false, false},
		{"nonexistent without parent", filepath.Join(tmpDir, "a", "b"), false, true},
		{"regular file", file, false, true},
		{"empty path", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Directory("export.dir", tt.path, tt.mustExist)
			checkResult(t, v, tt.wantErr)
		})
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "later")); !os.IsNotExist(err) {
		t.Error("validation must not create directories")
	}
}

func TestValidator_NotEmpty(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"non-empty", "hello", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"tab only", "\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.NotEmpty("testField", tt.value)
			checkResult(t, v, tt.wantErr)
		})
	}
}

func TestValidator_OneOf(t *testing.T) {
	allowed := []string{"qrcode", "rsc"}

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid qrcode", "qrcode", false},
		{"valid rsc", "rsc", false},
		{"invalid", "zxing", true},
		{"invalid empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.OneOf("render.engine", tt.value, allowed)
			checkResult(t, v, tt.wantErr)
		})
	}
}

func TestValidator_PositiveAndNonNegative(t *testing.T) {
	v := New()
	v.Positive("a", 1)
	v.NonNegative("b", 0)
	checkResult(t, v, false)

	v = New()
	v.Positive("a", 0)
	checkResult(t, v, true)

	v = New()
	v.NonNegative("b", -1)
	checkResult(t, v, true)
}

func TestValidator_Custom(t *testing.T) {
	minLen := func(v interface{}) error {
		s, ok := v.(string)
		if !ok {
			return errors.New("expected string value")
		}
		if len(s) >= 3 {
			return nil
		}
		return errors.New("too short")
	}

	v := New()
	v.Custom("testField", "hello", minLen)
	checkResult(t, v, false)

	v = New()
	v.Custom("testField", "hi", minLen)
	checkResult(t, v, true)
	if got := v.Errors()[0].Message; got != "too short" {
		t.Errorf("message = %q, want %q", got, "too short")
	}
}

func TestValidator_MultipleErrors(t *testing.T) {
	v := New()

	v.Port("port", 0)
	v.ListenAddr("listen", "")
	v.NotEmpty("name", "")

	if v.IsValid() {
		t.Fatal("expected errors, got none")
	}
	if got := len(v.Errors()); got != 3 {
		t.Errorf("expected 3 errors, got %d", got)
	}

	err := v.Err()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	var verr ValidationError
	if !errors.As(err, &verr) || len(verr.Errors()) != 3 {
		t.Fatalf("expected ValidationError with 3 entries, got %#v", err)
	}
	for _, field := range []string{"port", "listen", "name"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error message should mention %q", field)
		}
	}

	// Err returns a snapshot.
	v.NotEmpty("later", "")
	if len(verr.Errors()) != 3 {
		t.Error("ValidationError must not observe later errors")
	}
}

func TestValidator_NoErrors(t *testing.T) {
	v := New()
	v.ListenAddr("listen", ":8080")
	v.Range("size", 300, 64, 4096)
	v.OneOf("format", "png", []string{"png", "svg"})

	if err := v.Err(); err != nil {
		t.Errorf("unexpected errors: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"trace", LogLevelTrace, false},
		{"debug", LogLevelDebug, false},
		{"info", LogLevelInfo, false},
		{"warn", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"invalid", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
