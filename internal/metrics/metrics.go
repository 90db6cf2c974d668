package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	rjeDuration       prometheus.Histogram
	rjeErrors         prometheus.Counter
	rjeEngins         prometheus.Histogram
	importRows        *prometheus.CounterVec
	eventErrors       prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmao_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gmao_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		rjeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gmao_rje_build_duration_seconds",
			Help:    "Time spent fetching and computing one RJE report.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		rjeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gmao_rje_errors_total",
			Help: "RJE reports that failed.",
		}),
		rjeEngins: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gmao_rje_engins",
			Help:    "Number of engins in each RJE report.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmao_import_rows_total",
			Help: "Excel import rows by kind and outcome.",
		}, []string{"kind", "outcome"}),
		eventErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gmao_event_publish_errors_total",
			Help: "Saisie events that could not be published.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.rjeDuration,
		m.rjeErrors,
		m.rjeEngins,
		m.importRows,
		m.eventErrors,
	)
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Middleware labels requests with the matched mux route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RJEBuilt records one report computation.
func (m *Metrics) RJEBuilt(duration time.Duration, engins int, err error) {
	if m == nil {
		return
	}
	m.rjeDuration.Observe(duration.Seconds())
	if err != nil {
		m.rjeErrors.Inc()
		return
	}
	m.rjeEngins.Observe(float64(engins))
}

func (m *Metrics) ImportRows(kind string, inserted, rejected int) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues(kind, "inserted").Add(float64(inserted))
	m.importRows.WithLabelValues(kind, "rejected").Add(float64(rejected))
}

func (m *Metrics) EventPublishFailed() {
	if m == nil {
		return
	}
	m.eventErrors.Inc()
}

// Registry exposes the registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
