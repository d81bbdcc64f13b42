// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/wifiqr/internal/export"
	"github.com/ManuGH/wifiqr/internal/render"
	"github.com/ManuGH/wifiqr/internal/wifi"
)

type stubRenderer struct {
	gate    chan struct{}
	entered chan struct{}
	err     error

	mu       sync.Mutex
	payloads []string
}

func (s *stubRenderer) Name() string { return "stub" }

func (s *stubRenderer) Render(_ context.Context, payload string, opts render.Options) (*render.Image, error) {
	s.mu.Lock()
	s.payloads = append(s.payloads, payload)
	s.mu.Unlock()
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return nil, s.err
	}
	return &render.Image{Data: []byte(payload), Format: opts.Format, Size: opts.Size, Engine: "stub"}, nil
}

type stubExporter struct {
	name string
	img  *render.Image
	err  error
}

func (s *stubExporter) Export(_ context.Context, img *render.Image, name string) (string, error) {
	s.name, s.img = name, img
	if s.err != nil {
		return "", s.err
	}
	return "/out/" + name, nil
}

type stubClipboard struct {
	calls int
	err   error
}

func (s *stubClipboard) CopyImage(context.Context, *render.Image) error {
	s.calls++
	return s.err
}

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	f.stopped = true
	return true
}

type fakeClock struct {
	timers []*fakeTimer
	delays []time.Duration
}

func (f *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{fn: fn}
	f.timers = append(f.timers, t)
	f.delays = append(f.delays, d)
	return t
}

func newTestController(r render.Renderer, exp export.Exporter, clip export.Clipboard, clock *fakeClock) *Controller {
	return NewController(r, render.DefaultOptions(), exp, clip, WithAfterFunc(clock.AfterFunc))
}

func fill(c *Controller, cred wifi.Credential) {
	c.Dispatch(SetField{Field: FieldSSID, Value: cred.SSID})
	c.Dispatch(SetField{Field: FieldPassword, Value: cred.Password})
	c.Dispatch(SetField{Field: FieldEncryption, Value: cred.Mode.FormValue()})
}

func TestController_Generate(t *testing.T) {
	r := &stubRenderer{}
	c := newTestController(r, &stubExporter{}, &stubClipboard{}, &fakeClock{})
	fill(c, wifi.Credential{SSID: "HomeNet", Password: "secret123", Mode: wifi.ModeWPA})

	s, err := c.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"WIFI:T:WPA;S:HomeNet;P:secret123;;"}, r.payloads)
	assert.True(t, s.HasImage())
	assert.False(t, s.Generating)
	assert.Equal(t, "HomeNet", s.ImageSSID)
}

func TestController_GenerateValidationError(t *testing.T) {
	r := &stubRenderer{}
	c := newTestController(r, &stubExporter{}, &stubClipboard{}, &fakeClock{})

	s, err := c.Generate(context.Background())

	var valErr *wifi.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, wifi.FieldSSID, valErr.Field)
	assert.Empty(t, r.payloads, "renderer is never called")
	assert.False(t, s.Generating)
	assert.Equal(t, NoticeValidation, s.Notice.Kind)
	assert.Equal(t, "network name required", s.Notice.Message)
}

func TestController_GenerateEncodingError(t *testing.T) {
	r := &stubRenderer{err: &render.EncodingError{Engine: "stub", Err: errors.New("data too long")}}
	c := newTestController(r, &stubExporter{}, &stubClipboard{}, &fakeClock{})
	fill(c, wifi.Credential{SSID: "HomeNet", Mode: wifi.ModeOpen})

	s, err := c.Generate(context.Background())

	var encErr *render.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.False(t, s.Generating, "state returns to idle")
	assert.Equal(t, NoticeAlert, s.Notice.Kind)
	assert.False(t, s.HasImage())
}

func TestController_GenerateInProgress(t *testing.T) {
	r := &stubRenderer{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	c := newTestController(r, &stubExporter{}, &stubClipboard{}, &fakeClock{})
	fill(c, wifi.Credential{SSID: "HomeNet", Password: "pw", Mode: wifi.ModeWPA})

	done := make(chan error, 1)
	go func() {
		_, err := c.Generate(context.Background())
		done <- err
	}()
	<-r.entered

	assert.True(t, c.State().Generating)
	_, err := c.Generate(context.Background())
	require.ErrorIs(t, err, ErrGenerationInProgress)

	close(r.gate)
	require.NoError(t, <-done)
	assert.False(t, c.State().Generating)
}

func TestController_ClearWhileRendering(t *testing.T) {
	r := &stubRenderer{gate: make(chan struct{}), entered: make(chan struct{}, 2)}
	c := newTestController(r, &stubExporter{}, &stubClipboard{}, &fakeClock{})
	fill(c, wifi.Credential{SSID: "Secret", Password: "pw", Mode: wifi.ModeWPA})

	done := make(chan error, 1)
	go func() {
		_, err := c.Generate(context.Background())
		done <- err
	}()
	<-r.entered

	s := c.Clear()
	assert.Equal(t, "", s.Form.SSID)
	assert.True(t, s.Generating)

	// A new form cannot start a second render while the first is pending.
	fill(c, wifi.Credential{SSID: "Other", Mode: wifi.ModeOpen})
	_, err := c.Generate(context.Background())
	require.ErrorIs(t, err, ErrGenerationInProgress)

	close(r.gate)
	require.NoError(t, <-done)

	s = c.State()
	assert.False(t, s.Generating)
	assert.False(t, s.HasImage())
	assert.Empty(t, s.ImageSSID)
	assert.Equal(t, "Other", s.Form.SSID)

	s, err = c.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Other", s.ImageSSID)
	assert.Len(t, r.payloads, 2)
}

func TestController_ValidationFailureKeepsPendingRender(t *testing.T) {
	r := &stubRenderer{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	c := newTestController(r, &stubExporter{}, &stubClipboard{}, &fakeClock{})
	fill(c, wifi.Credential{SSID: "HomeNet", Mode: wifi.ModeOpen})

	done := make(chan error, 1)
	go func() {
		_, err := c.Generate(context.Background())
		done <- err
	}()
	<-r.entered

	s := c.Dispatch(GenerateRejected{Err: &wifi.ValidationError{Field: wifi.FieldSSID, Message: "network name required"}})
	assert.True(t, s.Generating)

	close(r.gate)
	require.NoError(t, <-done)
	assert.Equal(t, "HomeNet", c.State().ImageSSID)
}

func TestController_DownloadAndCopyRequireImage(t *testing.T) {
	clip := &stubClipboard{}
	c := newTestController(&stubRenderer{}, &stubExporter{}, clip, &fakeClock{})

	_, err := c.Download(context.Background())
	require.ErrorIs(t, err, ErrNoImage)

	_, err = c.Copy(context.Background())
	require.ErrorIs(t, err, ErrNoImage)
	assert.Zero(t, clip.calls)
}

func TestController_Download(t *testing.T) {
	exp := &stubExporter{}
	c := newTestController(&stubRenderer{}, exp, &stubClipboard{}, &fakeClock{})
	fill(c, wifi.Credential{SSID: "Caf;Net", Password: "pw", Mode: wifi.ModeWPA})
	_, err := c.Generate(context.Background())
	require.NoError(t, err)

	// Editing the form afterwards does not rename the image that exists.
	c.Dispatch(SetField{Field: FieldSSID, Value: "Other"})

	path, err := c.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wifi-Caf;Net-qr.png", exp.name)
	assert.Equal(t, "/out/wifi-Caf;Net-qr.png", path)
}

func TestController_DownloadSVGExtension(t *testing.T) {
	exp := &stubExporter{}
	opts := render.DefaultOptions()
	opts.Format = render.FormatSVG
	c := NewController(&stubRenderer{}, opts, exp, &stubClipboard{})
	fill(c, wifi.Credential{SSID: "Home", Mode: wifi.ModeOpen})
	_, err := c.Generate(context.Background())
	require.NoError(t, err)

	_, err = c.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wifi-Home-qr.svg", exp.name)
}

func TestController_DownloadError(t *testing.T) {
	exp := &stubExporter{err: errors.New("disk full")}
	c := newTestController(&stubRenderer{}, exp, &stubClipboard{}, &fakeClock{})
	fill(c, wifi.Credential{SSID: "Home", Mode: wifi.ModeOpen})
	_, err := c.Generate(context.Background())
	require.NoError(t, err)

	_, err = c.Download(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestController_CopyExpiresAfterTwoSeconds(t *testing.T) {
	clock := &fakeClock{}
	c := newTestController(&stubRenderer{}, &stubExporter{}, &stubClipboard{}, clock)
	fill(c, wifi.Credential{SSID: "Home", Mode: wifi.ModeOpen})
	_, err := c.Generate(context.Background())
	require.NoError(t, err)

	s, err := c.Copy(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Copied)
	require.Len(t, clock.timers, 1)
	assert.Equal(t, 2*time.Second, clock.delays[0])

	clock.timers[0].fn()
	assert.False(t, c.State().Copied)
}

func TestController_SecondCopyStopsFirstTimer(t *testing.T) {
	clock := &fakeClock{}
	c := newTestController(&stubRenderer{}, &stubExporter{}, &stubClipboard{}, clock)
	fill(c, wifi.Credential{SSID: "Home", Mode: wifi.ModeOpen})
	_, err := c.Generate(context.Background())
	require.NoError(t, err)

	_, err = c.Copy(context.Background())
	require.NoError(t, err)
	_, err = c.Copy(context.Background())
	require.NoError(t, err)

	require.Len(t, clock.timers, 2)
	assert.True(t, clock.timers[0].stopped)

	// A late first expiry must not clear the second confirmation.
	clock.timers[0].fn()
	assert.True(t, c.State().Copied)

	c.Close()
	assert.True(t, clock.timers[1].stopped)
}

func TestController_CopyFailure(t *testing.T) {
	clip := &stubClipboard{err: &export.ClipboardUnavailableError{Backend: "xclip", Err: errors.New("permission denied")}}
	clock := &fakeClock{}
	c := newTestController(&stubRenderer{}, &stubExporter{}, clip, clock)
	fill(c, wifi.Credential{SSID: "Home", Password: "pw", Mode: wifi.ModeWPA})
	before, err := c.Generate(context.Background())
	require.NoError(t, err)

	after, err := c.Copy(context.Background())

	var clipErr *export.ClipboardUnavailableError
	require.ErrorAs(t, err, &clipErr)
	assert.Equal(t, NoticeClipboard, after.Notice.Kind)
	assert.False(t, after.Copied)
	assert.Same(t, before.Image, after.Image)
	assert.Equal(t, before.Form, after.Form)
	assert.Empty(t, clock.timers)

	// Retry is allowed.
	clip.err = nil
	after, err = c.Copy(context.Background())
	require.NoError(t, err)
	assert.True(t, after.Copied)
	assert.Equal(t, NoticeNone, after.Notice.Kind)
}

func TestController_OnChange(t *testing.T) {
	var revs []uint64
	c := NewController(&stubRenderer{}, render.DefaultOptions(), &stubExporter{}, &stubClipboard{},
		WithOnChange(func(s State) { revs = append(revs, s.Rev) }),
		WithCopiedFor(time.Second),
	)
	fill(c, wifi.Credential{SSID: "Home", Mode: wifi.ModeOpen})
	_, err := c.Generate(context.Background())
	require.NoError(t, err)

	// three SetField, GenerateStarted, GenerateSucceeded
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, revs)
	assert.Equal(t, time.Second, c.copiedFor)

	c.Clear()
	assert.False(t, c.State().HasImage())
}
