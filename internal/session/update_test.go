// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/wifiqr/internal/render"
	"github.com/ManuGH/wifiqr/internal/wifi"
)

func apply(s State, actions ...Action) State {
	for _, a := range actions {
		s = Update(s, a)
	}
	return s
}

func TestUpdate_SetField(t *testing.T) {
	s := apply(Initial(),
		SetField{Field: FieldSSID, Value: "HomeNet"},
		SetField{Field: FieldPassword, Value: "secret123"},
		SetField{Field: FieldEncryption, Value: "nopass"},
		SetField{Field: FieldHidden, Value: "true"},
	)

	want := wifi.Credential{SSID: "HomeNet", Password: "secret123", Mode: wifi.ModeOpen, Hidden: true}
	if diff := cmp.Diff(want, s.Form); diff != "" {
		t.Errorf("form mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, uint64(4), s.Rev)
	assert.Equal(t, Notice{}, s.Notice)
}

func TestUpdate_SetFieldInvalid(t *testing.T) {
	s := apply(Initial(), SetField{Field: FieldEncryption, Value: "WPA9"})
	assert.Equal(t, wifi.ModeWPA, s.Form.Mode, "mode unchanged")
	assert.Equal(t, NoticeValidation, s.Notice.Kind)
	assert.Equal(t, FieldEncryption, s.Notice.Field)

	s = apply(s, SetField{Field: FieldHidden, Value: "maybe"})
	assert.False(t, s.Form.Hidden)
	assert.Equal(t, FieldHidden, s.Notice.Field)

	s = apply(s, SetField{Field: "color", Value: "red"})
	assert.Equal(t, "color", s.Notice.Field)
}

func TestUpdate_EditingFieldClearsItsNotice(t *testing.T) {
	s := apply(Initial(), GenerateRejected{Err: &wifi.ValidationError{Field: wifi.FieldSSID, Message: "network name required"}})
	assert.Equal(t, "network name required", s.Notice.Message)

	s = apply(s, SetField{Field: FieldPassword, Value: "x"})
	assert.Equal(t, NoticeValidation, s.Notice.Kind, "other fields keep the notice")

	s = apply(s, SetField{Field: FieldSSID, Value: "Home"})
	assert.Equal(t, Notice{}, s.Notice)
}

func TestUpdate_GenerateLifecycle(t *testing.T) {
	img := &render.Image{Data: []byte{1}}
	s := apply(Initial(), SetField{Field: FieldSSID, Value: "Home"})
	assert.True(t, s.CanGenerate())

	s = apply(s, GenerateStarted{})
	assert.True(t, s.Generating)
	assert.False(t, s.CanGenerate())

	assert.Equal(t, uint64(1), s.GenSeq)

	s = apply(s, GenerateSucceeded{Seq: 1, Image: img, SSID: "Home"})
	assert.False(t, s.Generating)
	assert.True(t, s.HasImage())
	assert.Equal(t, "Home", s.ImageSSID)
}

func TestUpdate_GenerateFailedKeepsPreviousImage(t *testing.T) {
	img := &render.Image{Data: []byte{1}}
	s := apply(Initial(),
		GenerateStarted{},
		GenerateSucceeded{Seq: 1, Image: img, SSID: "Home"},
		GenerateStarted{},
		GenerateFailed{Seq: 2, Err: &render.EncodingError{Engine: "qrcode", Err: errors.New("content too long")}},
	)

	assert.False(t, s.Generating)
	assert.Same(t, img, s.Image)
	assert.Equal(t, NoticeAlert, s.Notice.Kind)
	assert.Contains(t, s.Notice.Message, "content too long")

	s = apply(s, GenerateStarted{}, GenerateFailed{Seq: 3, Err: errors.New("boom")})
	assert.Equal(t, "Could not generate the QR code.", s.Notice.Message)
}

func TestUpdate_Copy(t *testing.T) {
	s := apply(Initial(), CopySucceeded{})
	assert.True(t, s.Copied)
	assert.Equal(t, uint64(1), s.CopySeq)

	s = apply(s, CopySucceeded{})
	assert.Equal(t, uint64(2), s.CopySeq)

	s = apply(s, CopiedExpired{Seq: 1})
	assert.True(t, s.Copied, "stale expiry ignored")

	s = apply(s, CopiedExpired{Seq: 2})
	assert.False(t, s.Copied)
}

func TestUpdate_CopyFailedOnlyAddsNotice(t *testing.T) {
	img := &render.Image{Data: []byte{1}}
	before := apply(Initial(),
		SetField{Field: FieldSSID, Value: "Home"},
		GenerateStarted{},
		GenerateSucceeded{Seq: 1, Image: img, SSID: "Home"},
	)

	after := Update(before, CopyFailed{Err: errors.New("denied")})

	assert.Equal(t, NoticeClipboard, after.Notice.Kind)
	after.Notice = before.Notice
	after.Rev = before.Rev
	assert.Equal(t, before, after)
}

func TestUpdate_Clear(t *testing.T) {
	s := apply(Initial(),
		SetField{Field: FieldSSID, Value: "Home"},
		GenerateStarted{},
		GenerateSucceeded{Seq: 1, Image: &render.Image{Data: []byte{1}}, SSID: "Home"},
		CopySucceeded{},
		Clear{},
	)

	assert.Equal(t, Initial().Form, s.Form)
	assert.False(t, s.HasImage())
	assert.False(t, s.Copied)
	assert.False(t, s.Generating)
	assert.False(t, s.DiscardResult)
	assert.Equal(t, uint64(5), s.Rev)
	assert.Equal(t, uint64(1), s.CopySeq, "copy sequence survives so stale expiries stay stale")
}

func TestUpdate_StaleOutcomeIgnored(t *testing.T) {
	s := apply(Initial(), GenerateStarted{}, GenerateStarted{})
	require.Equal(t, uint64(2), s.GenSeq)

	after := Update(s, GenerateSucceeded{Seq: 1, Image: &render.Image{Data: []byte{1}}, SSID: "Old"})
	assert.Equal(t, s, after)

	after = Update(s, GenerateFailed{Seq: 1, Err: errors.New("boom")})
	assert.Equal(t, s, after)

	idle := apply(Initial(), GenerateStarted{}, GenerateFailed{Seq: 1, Err: errors.New("boom")})
	after = Update(idle, GenerateSucceeded{Seq: 1, Image: &render.Image{Data: []byte{1}}, SSID: "Old"})
	assert.False(t, after.HasImage(), "outcome already reported")
}

func TestUpdate_ClearWhileGenerating(t *testing.T) {
	s := apply(Initial(),
		SetField{Field: FieldSSID, Value: "Secret"},
		GenerateStarted{},
		Clear{},
	)
	assert.Equal(t, "", s.Form.SSID)
	assert.True(t, s.Generating, "pending render still blocks generate")
	assert.True(t, s.DiscardResult)

	s = apply(s, SetField{Field: FieldSSID, Value: "Other"})
	assert.False(t, s.CanGenerate())

	done := apply(s, GenerateSucceeded{Seq: 1, Image: &render.Image{Data: []byte{1}}, SSID: "Secret"})
	assert.False(t, done.Generating)
	assert.False(t, done.DiscardResult)
	assert.False(t, done.HasImage(), "cleared credential is not rendered back")
	assert.Empty(t, done.ImageSSID)
	assert.Equal(t, "Other", done.Form.SSID)
	assert.True(t, done.CanGenerate())

	failed := apply(s, GenerateFailed{Seq: 1, Err: errors.New("boom")})
	assert.False(t, failed.Generating)
	assert.Equal(t, Notice{}, failed.Notice)
}

func TestUpdate_RejectedKeepsPendingGeneration(t *testing.T) {
	s := apply(Initial(),
		GenerateStarted{},
		GenerateRejected{Err: &wifi.ValidationError{Field: wifi.FieldSSID, Message: "network name required"}},
	)
	assert.True(t, s.Generating)
	assert.Equal(t, NoticeValidation, s.Notice.Kind)
}

func TestUpdate_DoesNotMutateInput(t *testing.T) {
	s := Initial()
	_ = Update(s, SetField{Field: FieldSSID, Value: "Home"})
	assert.Equal(t, "", s.Form.SSID)
	assert.Equal(t, uint64(0), s.Rev)
}
