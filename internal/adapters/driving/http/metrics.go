package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
)

// Metrics holds the server's Prometheus collectors
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	callbacks *prometheus.CounterVec
	exchanges *prometheus.CounterVec
}

// NewMetrics registers the server collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quran_bff_http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quran_bff_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		callbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quran_bff_oauth_callbacks_total",
				Help: "OAuth callbacks by outcome",
			},
			[]string{"outcome"},
		),
		exchanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quran_bff_oauth_exchanges_total",
				Help: "One-time code redemptions by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Handler records request count and latency by matched route pattern
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		// ServeMux records the matched pattern on the request
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Exposition serves the registry in the Prometheus text format
func (m *Metrics) Exposition(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveCallback counts a callback outcome. Provider error codes share one label value.
func (m *Metrics) ObserveCallback(reason domain.RedirectReason) {
	outcome := "success"
	switch reason {
	case "":
	case domain.RedirectInvalidState, domain.RedirectTokenExchangeFailed, domain.RedirectInvalidNonce:
		outcome = string(reason)
	default:
		outcome = "provider_error"
	}
	m.callbacks.WithLabelValues(outcome).Inc()
}

// ObserveExchange counts a redemption outcome
func (m *Metrics) ObserveExchange(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "invalid_code"
	}
	m.exchanges.WithLabelValues(outcome).Inc()
}
