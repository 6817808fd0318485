// Package metrics exposes Prometheus collectors for the HTTP layer and for sales.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	salesCreated   prometheus.Counter
	salesAmount    prometheus.Counter
	salesRejected  *prometheus.CounterVec
	salesCancelled prometheus.Counter
}

// New builds a registry holding the process, Go runtime and application collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pdv",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pdv",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		salesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pdv",
			Name:      "sales_created_total",
			Help:      "Sales committed.",
		}),
		salesAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pdv",
			Name:      "sales_amount_cents_total",
			Help:      "Sum of total_venda over committed sales, in cents.",
		}),
		salesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pdv",
			Name:      "sales_rejected_total",
			Help:      "Sale creations that did not commit, by reason.",
		}, []string{"reason"}),
		salesCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pdv",
			Name:      "sales_cancelled_total",
			Help:      "Sales moved to cancelada.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.salesCreated,
		m.salesAmount,
		m.salesRejected,
		m.salesCancelled,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry for inspection.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// SaleCreated records a committed sale of amount cents.
func (m *Metrics) SaleCreated(amount int64) {
	if m == nil {
		return
	}
	m.salesCreated.Inc()
	if amount > 0 {
		m.salesAmount.Add(float64(amount))
	}
}

// SaleRejected records a failed creation; reason is one of validation, conflict, error.
func (m *Metrics) SaleRejected(reason string) {
	if m == nil {
		return
	}
	m.salesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) SaleCancelled() {
	if m == nil {
		return
	}
	m.salesCancelled.Inc()
}

// Middleware records request count and latency labelled by the chi route pattern,
// so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
