package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal        *prometheus.CounterVec
	HTTPRequestDuration      *prometheus.HistogramVec
	ExportsTotal             *prometheus.CounterVec
	ExportDuration           prometheus.Histogram
	ExportFilesTotal         *prometheus.CounterVec
	AnalyticsRequestDuration *prometheus.HistogramVec
	DomainCacheLookupsTotal  *prometheus.CounterVec

	initOnce sync.Once
)

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		ExportsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_exports_total",
				Help: "Total number of analytics export attempts.",
			},
			[]string{"outcome"}, // success, forbidden, exceeded_limit, rate_limited, error
		)

		ExportDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "analytics_export_duration_seconds",
				Help:    "Duration of successful analytics exports.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		)

		ExportFilesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_export_files_total",
				Help: "CSV files written into export archives.",
			},
			[]string{"endpoint"},
		)

		AnalyticsRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analytics_provider_request_duration_seconds",
				Help:    "Duration of analytics provider calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "status"},
		)

		DomainCacheLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domain_cache_lookups_total",
				Help: "Root domain cache lookups.",
			},
			[]string{"result"}, // hit, miss, error
		)
	})
}

// The helpers below are no-ops until Init has run, so library code and tests
// never have to care whether collectors are registered.

func ObserveExport(outcome string, d time.Duration) {
	if ExportsTotal == nil {
		return
	}
	ExportsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		ExportDuration.Observe(d.Seconds())
	}
}

func IncExportFile(endpoint string) {
	if ExportFilesTotal == nil {
		return
	}
	ExportFilesTotal.WithLabelValues(endpoint).Inc()
}

func ObserveAnalyticsRequest(endpoint, status string, d time.Duration) {
	if AnalyticsRequestDuration == nil {
		return
	}
	AnalyticsRequestDuration.WithLabelValues(endpoint, status).Observe(d.Seconds())
}

func IncDomainCacheLookup(result string) {
	if DomainCacheLookupsTotal == nil {
		return
	}
	DomainCacheLookupsTotal.WithLabelValues(result).Inc()
}

func ObserveHTTPRequest(method, path, status string, d time.Duration) {
	if HTTPRequestsTotal == nil {
		return
	}
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
}
