// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package session holds the state of one generate/download/copy session.
//
// State is a value. Every user action is an Action applied by Update, which
// returns the next State without touching the previous one. Controller runs
// the side effects (render, export, clipboard) and feeds their outcome back
// through Update.
package session

import (
	"github.com/ManuGH/wifiqr/internal/render"
	"github.com/ManuGH/wifiqr/internal/wifi"
)

// NoticeKind classifies the message shown next to the form.
type NoticeKind string

const (
	NoticeNone       NoticeKind = ""
	NoticeValidation NoticeKind = "validation"
	NoticeAlert      NoticeKind = "alert"
	NoticeClipboard  NoticeKind = "clipboard"
)

// Notice is a user-facing message. Field is set for validation notices.
type Notice struct {
	Kind    NoticeKind
	Field   string
	Message string
}

// State is the complete session state.
type State struct {
	Form wifi.Credential

	// Image is the last successfully rendered symbol; ImageSSID is the network
	// name it was rendered for and names the downloaded file.
	Image     *render.Image
	ImageSSID string

	// Generating stays set until the render numbered GenSeq reports back,
	// even across Clear. DiscardResult marks that render's outcome as
	// belonging to a form that has since been cleared.
	Generating    bool
	GenSeq        uint64
	DiscardResult bool

	Copied bool
	// CopySeq identifies the copy that set Copied, so a stale expiry does
	// not clear a newer confirmation.
	CopySeq uint64

	Notice Notice
	// Rev increases with every applied action.
	Rev uint64
}

// Initial returns the state of an empty form.
func Initial() State {
	return State{Form: wifi.Credential{Mode: wifi.ModeWPA}}
}

// CanGenerate reports whether the generate action is enabled.
func (s State) CanGenerate() bool {
	return !s.Generating && s.Form.SSID != ""
}

// HasImage reports whether download and copy are available.
func (s State) HasImage() bool {
	return s.Image != nil && len(s.Image.Data) > 0
}
