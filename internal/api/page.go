// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/ManuGH/wifiqr/internal/log"
	"github.com/ManuGH/wifiqr/internal/wifi"
)

//go:embed web/templates/index.html
var pageFS embed.FS

//go:embed all:web/static
var staticFS embed.FS

type modeOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Version   string
	Modes     []modeOption
	QRPath    string
	CopiedFor int // milliseconds
}

func parsePage() (*template.Template, error) {
	return template.ParseFS(pageFS, "web/templates/index.html")
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Version:   s.version,
		QRPath:    V1BaseURL + "/qr",
		CopiedFor: 2000,
	}
	for _, m := range wifi.Modes {
		data.Modes = append(data.Modes, modeOption{
			Value:    m.FormValue(),
			Label:    m.Label(),
			Selected: m == wifi.ModeWPA,
		})
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		log.FromContext(r.Context()).Error().Err(err).Str("event", "page.render_failed").Msg("failed to render page")
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// staticHandler serves the page's script and stylesheet.
func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "web/static")
	if err != nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "static assets not available", http.StatusInternalServerError)
		})
	}
	files := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}
