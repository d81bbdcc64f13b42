// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/wifiqr/internal/api/middleware"
	"github.com/ManuGH/wifiqr/internal/api/problem"
	"github.com/ManuGH/wifiqr/internal/config"
)

// V1BaseURL prefixes every JSON/image API route.
const V1BaseURL = "/api/v1"

func (s *Server) routes() http.Handler {
	r := s.newRouter()
	s.registerPublicRoutes(r)
	s.registerV1Routes(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		problem.Write(w, r, http.StatusNotFound, "system/not_found", "Not Found", problem.CodeNotFound, "", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		problem.Write(w, r, http.StatusMethodNotAllowed, "system/method_not_allowed", "Method Not Allowed",
			problem.CodeMethodNotAllowed, "", nil)
	})
	return r
}

func (s *Server) newRouter() chi.Router {
	return middleware.NewRouter(middleware.StackConfig{
		EnableCORS:     len(s.cfg.API.CORSOrigins) > 0,
		AllowedOrigins: s.cfg.API.CORSOrigins,

		EnableSecurityHeaders: true,
		CSP:                   middleware.DefaultCSP,

		EnableMetrics:  true,
		TracingService: tracingService(s.cfg),
		EnableLogging:  true,

		EnableRateLimit:   s.cfg.API.RateLimitEnabled,
		RateLimitRequests: s.cfg.API.RateLimitRequests,
		RateLimitWindow:   s.cfg.API.RateLimitWindow,
	})
}

func tracingService(cfg config.AppConfig) string {
	if !cfg.Telemetry.Enabled {
		return ""
	}
	return "wifiqr-api"
}

func (s *Server) registerPublicRoutes(r chi.Router) {
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)

	r.Get("/", s.handlePage)
	r.Handle("/static/*", staticHandler())
}

func (s *Server) registerV1Routes(r chi.Router) {
	r.Route(V1BaseURL, func(r chi.Router) {
		r.Post("/encode", s.handleEncode)
		r.Post("/decode", s.handleDecode)
		r.Post("/qr", s.handleQR)
		r.Get("/qr", s.handleQRQuery)
	})
}
