// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package render

import (
	"context"
	"errors"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"rsc.io/qr"

	"github.com/ManuGH/wifiqr/internal/metrics"
	"github.com/ManuGH/wifiqr/internal/telemetry"
)

// matrixFunc encodes payload into a module matrix without quiet zone.
// matrix[y][x] is true for dark modules.
type matrixFunc func(payload string, level Level) ([][]bool, error)

// engine adapts a third-party encoder to the Renderer interface.
type engine struct {
	name   string
	encode matrixFunc
}

// NewQRCode returns a renderer backed by github.com/skip2/go-qrcode.
func NewQRCode() Renderer {
	return &engine{name: EngineQRCode, encode: skip2Matrix}
}

// NewRSC returns a renderer backed by rsc.io/qr.
func NewRSC() Renderer {
	return &engine{name: EngineRSC, encode: rscMatrix}
}

func (e *engine) Name() string { return e.name }

func (e *engine) Render(ctx context.Context, payload string, opts Options) (*Image, error) {
	_, span := telemetry.Tracer("wifiqr.render").Start(ctx, "qr.render",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()
	span.SetAttributes(telemetry.RenderAttributes(e.name, string(opts.Format), opts.Level.String(), opts.Size)...)

	if err := opts.Validate(); err != nil {
		var encErr *EncodingError
		if errors.As(err, &encErr) {
			encErr.Engine = e.name
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid render options")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	matrix, err := e.encode(payload, opts.Level)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payload rejected by encoder")
		return nil, &EncodingError{Engine: e.name, Err: err}
	}

	img, err := draw(matrix, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rasterize failed")
		return nil, &EncodingError{Engine: e.name, Err: err}
	}
	img.Engine = e.name

	elapsed := time.Since(start)
	metrics.ObserveRender(e.name, string(opts.Format), elapsed)
	span.SetAttributes(
		attribute.Int(telemetry.QRModulesKey, img.Modules),
		attribute.Int64(telemetry.QRDurationKey, elapsed.Milliseconds()),
	)
	return img, nil
}

func skip2Matrix(payload string, level Level) ([][]bool, error) {
	q, err := qrcode.New(payload, skip2Level(level))
	if err != nil {
		return nil, err
	}
	// The quiet zone is drawn by the rasterizer so both engines honor Margin.
	q.DisableBorder = true
	return q.Bitmap(), nil
}

func skip2Level(l Level) qrcode.RecoveryLevel {
	switch l {
	case LevelLow:
		return qrcode.Low
	case LevelQuartile:
		return qrcode.High
	case LevelHigh:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

func rscMatrix(payload string, level Level) ([][]bool, error) {
	code, err := qr.Encode(payload, rscLevel(level))
	if err != nil {
		return nil, err
	}
	n := code.Size
	matrix := make([][]bool, n)
	for y := 0; y < n; y++ {
		row := make([]bool, n)
		for x := 0; x < n; x++ {
			row[x] = code.Black(x, y)
		}
		matrix[y] = row
	}
	return matrix, nil
}

func rscLevel(l Level) qr.Level {
	switch l {
	case LevelLow:
		return qr.L
	case LevelQuartile:
		return qr.Q
	case LevelHigh:
		return qr.H
	default:
		return qr.M
	}
}
