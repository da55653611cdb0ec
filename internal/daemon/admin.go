// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"net/http"

	"github.com/ManuGH/chromad/internal/health"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewAdminRouter serves Prometheus metrics and the health endpoints.
func NewAdminRouter(hm *health.Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", hm.ServeHealth)
	r.Get("/readyz", hm.ServeReady)
	return r
}
