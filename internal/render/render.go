// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package render turns a payload string into a QR image. The symbol encoding
// itself is delegated to a third-party engine behind the Renderer interface;
// this package only owns quiet zone, scaling, colors and the output format.
package render

import (
	"context"
	"fmt"
	"image/color"
	"strings"
)

// Renderer encodes payload into an image.
type Renderer interface {
	// Name identifies the engine in logs, metrics and traces.
	Name() string
	Render(ctx context.Context, payload string, opts Options) (*Image, error)
}

// Format is the output encoding of a rendered image.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// Extension returns the file extension for f including the dot.
func (f Format) Extension() string {
	if f == FormatSVG {
		return ".svg"
	}
	return ".png"
}

// ParseFormat accepts "png" and "svg" (case-insensitive). Empty means PNG.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", raw)
	}
}

// Level is the error correction level of the symbol.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelQuartile
	LevelHigh
)

// ParseLevel accepts L, M, Q, H and the spelled out names.
func ParseLevel(raw string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "L", "LOW":
		return LevelLow, nil
	case "", "M", "MEDIUM":
		return LevelMedium, nil
	case "Q", "QUARTILE":
		return LevelQuartile, nil
	case "H", "HIGH":
		return LevelHigh, nil
	default:
		return LevelMedium, fmt.Errorf("unknown error correction level %q", raw)
	}
}

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "L"
	case LevelQuartile:
		return "Q"
	case LevelHigh:
		return "H"
	default:
		return "M"
	}
}

// Size limits accepted by Validate.
const (
	MinSize   = 64
	MaxSize   = 4096
	MaxMargin = 16
)

// Options control how a symbol is drawn.
type Options struct {
	Size       int // edge length in pixels
	Margin     int // quiet zone in modules
	Foreground color.Color
	Background color.Color
	Level      Level
	Format     Format
}

// DefaultOptions is 300x300 PNG, 2-module quiet zone, black on white, level M.
func DefaultOptions() Options {
	return Options{
		Size:       300,
		Margin:     2,
		Foreground: color.Black,
		Background: color.White,
		Level:      LevelMedium,
		Format:     FormatPNG,
	}
}

// Invert swaps foreground and background (white on black).
func (o Options) Invert() Options {
	o.Foreground, o.Background = o.Background, o.Foreground
	return o
}

// Validate reports the first invalid option as an EncodingError.
func (o Options) Validate() error {
	switch {
	case o.Size < MinSize || o.Size > MaxSize:
		return &EncodingError{Err: fmt.Errorf("size %d out of range [%d, %d]", o.Size, MinSize, MaxSize)}
	case o.Margin < 0 || o.Margin > MaxMargin:
		return &EncodingError{Err: fmt.Errorf("margin %d out of range [0, %d]", o.Margin, MaxMargin)}
	case o.Foreground == nil || o.Background == nil:
		return &EncodingError{Err: fmt.Errorf("foreground and background colors are required")}
	case o.Format != FormatPNG && o.Format != FormatSVG:
		return &EncodingError{Err: fmt.Errorf("unsupported image format %q", o.Format)}
	}
	return nil
}

// Image is a rendered QR code.
type Image struct {
	Data        []byte
	ContentType string
	Format      Format
	Size        int // pixels
	Modules     int // symbol width in modules, quiet zone excluded
	Engine      string
}

// EncodingError reports that the engine rejected the payload (typically too
// long for any symbol version at the requested level) or that the options were
// unusable.
type EncodingError struct {
	Engine string
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Engine == "" {
		return "qr encoding failed: " + e.Err.Error()
	}
	return fmt.Sprintf("qr encoding failed (%s): %v", e.Engine, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Engine names accepted by New.
const (
	EngineQRCode = "qrcode"
	EngineRSC    = "rsc"
)

// New returns the renderer registered under name.
func New(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineQRCode, "skip2":
		return NewQRCode(), nil
	case EngineRSC:
		return NewRSC(), nil
	default:
		return nil, fmt.Errorf("unknown render engine %q", name)
	}
}
