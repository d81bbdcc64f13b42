// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/wifiqr/internal/export"
	xglog "github.com/ManuGH/wifiqr/internal/log"
	"github.com/ManuGH/wifiqr/internal/metrics"
	"github.com/ManuGH/wifiqr/internal/render"
	"github.com/ManuGH/wifiqr/internal/wifi"
)

var (
	// ErrGenerationInProgress is returned when Generate is called while a
	// previous generation has not finished.
	ErrGenerationInProgress = errors.New("generation already in progress")
	// ErrNoImage is returned by Download and Copy before the first successful generation.
	ErrNoImage = errors.New("no image generated yet")
)

// DefaultCopiedFor is how long the copied confirmation stays visible.
const DefaultCopiedFor = 2 * time.Second

// Timer is the part of *time.Timer the controller uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// Option configures a Controller.
type Option func(*Controller)

// WithAfterFunc replaces the clock used to expire the copied flag.
func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Controller) { c.afterFunc = fn }
}

// WithCopiedFor changes how long the copied flag stays set.
func WithCopiedFor(d time.Duration) Option {
	return func(c *Controller) { c.copiedFor = d }
}

// WithOnChange registers a callback invoked with every new state, outside the lock.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller owns one session State and runs the effects of each action.
// All state changes go through Update while holding mu.
type Controller struct {
	renderer  render.Renderer
	opts      render.Options
	exporter  export.Exporter
	clipboard export.Clipboard

	afterFunc AfterFunc
	copiedFor time.Duration
	onChange  func(State)
	logger    zerolog.Logger

	mu          sync.Mutex
	state       State
	copiedTimer Timer
}

// NewController creates a controller with an empty form.
func NewController(r render.Renderer, opts render.Options, exp export.Exporter, clip export.Clipboard, options ...Option) *Controller {
	c := &Controller{
		renderer:  r,
		opts:      opts,
		exporter:  exp,
		clipboard: clip,
		afterFunc: func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) },
		copiedFor: DefaultCopiedFor,
		logger:    xglog.WithComponent("session"),
		state:     Initial(),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies a to the current state and returns the result.
func (c *Controller) Dispatch(a Action) State {
	c.mu.Lock()
	next := Update(c.state, a)
	c.state = next
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(next)
	}
	return next
}

// Generate encodes the form and renders it. A validation or encoding failure
// is recorded as a notice and also returned.
func (c *Controller) Generate(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.state.Generating {
		c.mu.Unlock()
		return State{}, ErrGenerationInProgress
	}
	form := c.state.Form
	c.mu.Unlock()

	mode := form.Mode.String()
	payload, err := wifi.Encode(form)
	if err != nil {
		metrics.RecordGenerated(metrics.OutcomeValidationError, mode)
		c.logger.Debug().Err(err).Str("event", "qr.validation_failed").Msg("credential rejected")
		return c.Dispatch(GenerateRejected{Err: err}), err
	}

	c.mu.Lock()
	if c.state.Generating {
		c.mu.Unlock()
		return State{}, ErrGenerationInProgress
	}
	c.state = Update(c.state, GenerateStarted{})
	started := c.state
	seq := started.GenSeq
	c.mu.Unlock()
	if c.onChange != nil {
		c.onChange(started)
	}

	img, err := c.renderer.Render(ctx, payload, c.opts)
	if err != nil {
		outcome := metrics.OutcomeError
		var encErr *render.EncodingError
		if errors.As(err, &encErr) {
			outcome = metrics.OutcomeEncodingError
		}
		metrics.RecordGenerated(outcome, mode)
		c.logger.Warn().
			Err(err).
			Str("event", "qr.encode_failed").
			Str(xglog.FieldSSID, form.SSID).
			Str(xglog.FieldEngine, c.renderer.Name()).
			Msg("render failed")
		return c.Dispatch(GenerateFailed{Seq: seq, Err: err}), fmt.Errorf("render qr: %w", err)
	}

	next := c.Dispatch(GenerateSucceeded{Seq: seq, Image: img, SSID: form.SSID})
	if next.Image != img {
		c.logger.Debug().Str("event", "qr.discarded").Msg("form cleared while rendering")
		return next, nil
	}

	metrics.RecordGenerated(metrics.OutcomeSuccess, mode)
	c.logger.Info().
		Str("event", "qr.generated").
		Str(xglog.FieldSSID, form.SSID).
		Str(xglog.FieldEncryption, mode).
		Bool(xglog.FieldHidden, form.Hidden).
		Str(xglog.FieldEngine, img.Engine).
		Int(xglog.FieldModules, img.Modules).
		Msg("qr code generated")
	return next, nil
}

// Download exports the current image under the wifi-<ssid>-qr name and
// returns where it was written.
func (c *Controller) Download(ctx context.Context) (string, error) {
	s := c.State()
	if !s.HasImage() {
		return "", ErrNoImage
	}

	name := strings.TrimSuffix(wifi.Filename(s.ImageSSID), ".png") + s.Image.Format.Extension()
	path, err := c.exporter.Export(ctx, s.Image, name)
	metrics.RecordExport("file", err)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	return path, nil
}

// Copy places the current image on the clipboard. On failure the state only
// gains a notice; the image and form are untouched and Copy may be retried.
func (c *Controller) Copy(ctx context.Context) (State, error) {
	s := c.State()
	if !s.HasImage() {
		return s, ErrNoImage
	}

	if err := c.clipboard.CopyImage(ctx, s.Image); err != nil {
		metrics.RecordExport("clipboard", err)
		var clipErr *export.ClipboardUnavailableError
		backend := ""
		if errors.As(err, &clipErr) {
			backend = clipErr.Backend
		}
		metrics.IncClipboardUnavailable(backend)
		c.logger.Warn().
			Err(err).
			Str("event", "clipboard.unavailable").
			Str(xglog.FieldBackend, backend).
			Msg("copy to clipboard failed")
		return c.Dispatch(CopyFailed{Err: err}), err
	}
	metrics.RecordExport("clipboard", nil)

	next := c.Dispatch(CopySucceeded{})
	seq := next.CopySeq
	t := c.afterFunc(c.copiedFor, func() {
		c.Dispatch(CopiedExpired{Seq: seq})
	})

	c.mu.Lock()
	prev := c.copiedTimer
	c.copiedTimer = t
	c.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
	return next, nil
}

// Clear resets the session.
func (c *Controller) Clear() State {
	return c.Dispatch(Clear{})
}

// Close stops a pending copied-flag timer.
func (c *Controller) Close() {
	c.mu.Lock()
	t := c.copiedTimer
	c.copiedTimer = nil
	c.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}
