package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/linkstats/internal/delivery/http/handler"
	"github.com/user/linkstats/internal/delivery/http/middleware"
)

// RequestTimeout bounds a single request, including the analytics fan-out of an export.
const RequestTimeout = 60 * time.Second

func New(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(RequestTimeout))

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/health", h.HandleHealthCheck)

	r.Route("/api/analytics", func(r chi.Router) {
		r.Use(h.RequireWorkspace)
		r.Get("/export", h.HandleExport)
		r.Get("/domains", h.HandleDomainSelector)
	})

	return r
}
