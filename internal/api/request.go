// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ManuGH/wifiqr/internal/render"
	"github.com/ManuGH/wifiqr/internal/wifi"
)

// credentialRequest is the JSON form of a credential. An omitted encryption
// means WPA, the form's preselected option; "nopass" selects an open network.
type credentialRequest struct {
	SSID       string `json:"ssid"`
	Password   string `json:"password"`
	Encryption string `json:"encryption"`
	Hidden     bool   `json:"hidden"`
}

// qrRequest adds optional image settings to a credential.
type qrRequest struct {
	credentialRequest
	Size       *int   `json:"size,omitempty"`
	Margin     *int   `json:"margin,omitempty"`
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`
	Level      string `json:"level,omitempty"`
	Format     string `json:"format,omitempty"`
	Invert     bool   `json:"invert,omitempty"`
}

type decodeRequest struct {
	Payload string `json:"payload"`
}

type encodeResponse struct {
	Payload string `json:"payload"`
}

// badRequestError marks malformed input (unparseable body, bad query value).
type badRequestError struct {
	msg string
	err error
}

func (e *badRequestError) Error() string { return e.msg }
func (e *badRequestError) Unwrap() error { return e.err }

func badRequest(err error, format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...), err: err}
}

// decodeJSON reads a single JSON object of at most limit bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return badRequest(nil, "content type must be application/json")
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return badRequest(err, "request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return badRequest(err, "request body is empty")
		default:
			return badRequest(err, "invalid JSON body: %v", err)
		}
	}
	if dec.More() {
		return badRequest(nil, "request body must contain a single JSON object")
	}
	return nil
}

func (c credentialRequest) credential() (wifi.Credential, error) {
	mode := wifi.ModeWPA
	if strings.TrimSpace(c.Encryption) != "" {
		var err error
		if mode, err = wifi.ParseEncryptionMode(c.Encryption); err != nil {
			return wifi.Credential{}, err
		}
	}
	return wifi.Credential{
		SSID:     c.SSID,
		Password: c.Password,
		Mode:     mode,
		Hidden:   c.Hidden,
	}, nil
}

// options applies the request's image settings over base.
func (q qrRequest) options(base render.Options) (render.Options, error) {
	opts := base
	if q.Size != nil {
		opts.Size = *q.Size
	}
	if q.Margin != nil {
		opts.Margin = *q.Margin
	}

	var err error
	if q.Level != "" {
		if opts.Level, err = render.ParseLevel(q.Level); err != nil {
			return opts, badRequest(err, "%v", err)
		}
	}
	if q.Format != "" {
		if opts.Format, err = render.ParseFormat(q.Format); err != nil {
			return opts, badRequest(err, "%v", err)
		}
	}
	if q.Foreground != "" {
		if opts.Foreground, err = render.ParseColor(q.Foreground); err != nil {
			return opts, badRequest(err, "foreground: %v", err)
		}
	}
	if q.Background != "" {
		if opts.Background, err = render.ParseColor(q.Background); err != nil {
			return opts, badRequest(err, "background: %v", err)
		}
	}
	if q.Invert {
		opts = opts.Invert()
	}
	return opts, nil
}

// qrRequestFromQuery reads the GET form of /api/v1/qr.
func qrRequestFromQuery(v url.Values) (qrRequest, error) {
	q := qrRequest{
		credentialRequest: credentialRequest{
			SSID:       v.Get("ssid"),
			Password:   v.Get("password"),
			Encryption: v.Get("encryption"),
		},
		Foreground: v.Get("foreground"),
		Background: v.Get("background"),
		Level:      v.Get("level"),
		Format:     v.Get("format"),
	}

	var err error
	if q.Hidden, err = queryBool(v, "hidden"); err != nil {
		return q, err
	}
	if q.Invert, err = queryBool(v, "invert"); err != nil {
		return q, err
	}
	if q.Size, err = queryInt(v, "size"); err != nil {
		return q, err
	}
	if q.Margin, err = queryInt(v, "margin"); err != nil {
		return q, err
	}
	return q, nil
}

// queryBool accepts strconv.ParseBool values plus "on" (HTML checkboxes).
func queryBool(v url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(v.Get(key))
	switch strings.ToLower(raw) {
	case "":
		return false, nil
	case "on", "yes":
		return true, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badRequest(err, "%s must be a boolean", key)
	}
	return b, nil
}

func queryInt(v url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badRequest(err, "%s must be an integer", key)
	}
	return &n, nil
}
