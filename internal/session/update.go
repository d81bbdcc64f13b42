// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"errors"
	"strconv"

	"github.com/ManuGH/wifiqr/internal/render"
	"github.com/ManuGH/wifiqr/internal/wifi"
)

// Form field names accepted by SetField.
const (
	FieldSSID       = wifi.FieldSSID
	FieldPassword   = "password"
	FieldEncryption = wifi.FieldEncryption
	FieldHidden     = "hidden"
)

// Action is one user action or effect outcome.
type Action interface {
	isAction()
}

// SetField edits one form input. Value carries the raw input text; the
// encryption field accepts anything ParseEncryptionMode does and the hidden
// field anything strconv.ParseBool does.
type SetField struct {
	Field string
	Value string
}

type GenerateStarted struct{}

// GenerateSucceeded and GenerateFailed report the outcome of the render
// started as generation Seq. Outcomes for any other generation are ignored.
type GenerateSucceeded struct {
	Seq   uint64
	Image *render.Image
	SSID  string
}

type GenerateFailed struct {
	Seq uint64
	Err error
}

// GenerateRejected reports a form that failed validation before any render
// started. It never touches an in-flight generation.
type GenerateRejected struct {
	Err error
}

type CopySucceeded struct{}

type CopyFailed struct {
	Err error
}

// CopiedExpired clears the copied confirmation set by copy number Seq.
type CopiedExpired struct {
	Seq uint64
}

// Clear resets the form and discards the image.
type Clear struct{}

func (SetField) isAction()          {}
func (GenerateStarted) isAction()   {}
func (GenerateSucceeded) isAction() {}
func (GenerateFailed) isAction()    {}
func (GenerateRejected) isAction()  {}
func (CopySucceeded) isAction()     {}
func (CopyFailed) isAction()        {}
func (CopiedExpired) isAction()     {}
func (Clear) isAction()             {}

// Update applies a to s and returns the next state. It has no side effects.
func Update(s State, a Action) State {
	next := s
	next.Rev = s.Rev + 1

	switch a := a.(type) {
	case SetField:
		next = applyField(next, a)

	case GenerateStarted:
		next.Generating = true
		next.GenSeq = s.GenSeq + 1
		next.DiscardResult = false
		next.Copied = false
		next.Notice = Notice{}

	case GenerateSucceeded:
		if !s.pending(a.Seq) {
			return s
		}
		next.Generating = false
		next.DiscardResult = false
		if s.DiscardResult {
			break
		}
		next.Image = a.Image
		next.ImageSSID = a.SSID
		next.Notice = Notice{}

	case GenerateFailed:
		if !s.pending(a.Seq) {
			return s
		}
		// The previous image, if any, stays available.
		next.Generating = false
		next.DiscardResult = false
		if s.DiscardResult {
			break
		}
		next.Notice = noticeFor(a.Err)

	case GenerateRejected:
		next.Notice = noticeFor(a.Err)

	case CopySucceeded:
		next.Copied = true
		next.CopySeq = s.CopySeq + 1
		next.Notice = Notice{}

	case CopyFailed:
		next.Notice = Notice{Kind: NoticeClipboard, Message: "Could not copy the image to the clipboard. Try downloading it instead."}

	case CopiedExpired:
		if a.Seq == s.CopySeq {
			next.Copied = false
		}

	case Clear:
		next = Initial()
		next.Rev = s.Rev + 1
		next.CopySeq = s.CopySeq
		next.GenSeq = s.GenSeq
		next.Generating = s.Generating
		next.DiscardResult = s.Generating

	default:
		next.Rev = s.Rev
	}
	return next
}

func (s State) pending(seq uint64) bool {
	return s.Generating && seq == s.GenSeq
}

func applyField(s State, a SetField) State {
	if s.Notice.Kind == NoticeValidation && s.Notice.Field == a.Field {
		s.Notice = Notice{}
	}

	switch a.Field {
	case FieldSSID:
		s.Form.SSID = a.Value
	case FieldPassword:
		s.Form.Password = a.Value
	case FieldEncryption:
		mode, err := wifi.ParseEncryptionMode(a.Value)
		if err != nil {
			s.Notice = noticeFor(err)
			return s
		}
		s.Form.Mode = mode
	case FieldHidden:
		hidden, err := strconv.ParseBool(a.Value)
		if err != nil {
			s.Notice = Notice{Kind: NoticeValidation, Field: FieldHidden, Message: "hidden must be true or false"}
			return s
		}
		s.Form.Hidden = hidden
	default:
		s.Notice = Notice{Kind: NoticeValidation, Field: a.Field, Message: "unknown field"}
	}
	return s
}

func noticeFor(err error) Notice {
	var valErr *wifi.ValidationError
	if errors.As(err, &valErr) {
		return Notice{Kind: NoticeValidation, Field: valErr.Field, Message: valErr.Message}
	}
	var encErr *render.EncodingError
	if errors.As(err, &encErr) && encErr.Err != nil {
		return Notice{Kind: NoticeAlert, Message: "Could not generate the QR code: " + encErr.Err.Error()}
	}
	return Notice{Kind: NoticeAlert, Message: "Could not generate the QR code."}
}
