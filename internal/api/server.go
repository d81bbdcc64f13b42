// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves the wifiqr form page and its JSON/image HTTP API.
package api

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ManuGH/wifiqr/internal/config"
	"github.com/ManuGH/wifiqr/internal/health"
	"github.com/ManuGH/wifiqr/internal/log"
)

var (
	ErrMissingPipeline = errors.New("api: render pipeline is required")
	ErrMissingHealth   = errors.New("api: health manager is required")
)

// Deps are the collaborators of a Server.
type Deps struct {
	Pipeline *Pipeline
	Health   *health.Manager
	Version  string
}

// Validate reports the first missing dependency.
func (d Deps) Validate() error {
	if d.Pipeline == nil {
		return ErrMissingPipeline
	}
	if d.Health == nil {
		return ErrMissingHealth
	}
	return nil
}

// Server handles HTTP requests. It is safe for concurrent use; Reload swaps
// the render pipeline without blocking in-flight requests.
type Server struct {
	cfg      config.AppConfig
	health   *health.Manager
	version  string
	page     *template.Template
	pipeline atomic.Pointer[Pipeline]
	logger   zerolog.Logger
}

// New creates a server for cfg.
func New(cfg config.AppConfig, deps Deps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	page, err := parsePage()
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		health:  deps.Health,
		version: deps.Version,
		page:    page,
		logger:  log.WithComponent("api"),
	}
	s.pipeline.Store(deps.Pipeline)
	return s, nil
}

// Handler returns the root HTTP handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Pipeline returns the render pipeline currently in use.
func (s *Server) Pipeline() *Pipeline {
	return s.pipeline.Load()
}

// Reload builds a pipeline from cfg and swaps it in. On error the current
// pipeline stays active. Listener, CORS and rate limit settings are read
// once at startup and are not affected.
func (s *Server) Reload(cfg config.AppConfig) error {
	next, err := NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("rebuild render pipeline: %w", err)
	}
	prev := s.pipeline.Swap(next)
	if prev != nil {
		prev.Close()
	}
	s.logger.Info().
		Str("event", "api.pipeline_reloaded").
		Str(log.FieldEngine, next.Renderer.Name()).
		Int(log.FieldSize, next.Options.Size).
		Msg("render pipeline reloaded")
	return nil
}

// Close releases the current pipeline.
func (s *Server) Close() {
	if p := s.pipeline.Load(); p != nil {
		p.Close()
	}
}
