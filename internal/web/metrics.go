package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "wlpa"

// Search outcomes recorded by searches_total.
const (
	outcomePrompt = "prompt"
	outcomeEmpty  = "empty"
	outcomeFound  = "found"
)

// metrics holds the server's Prometheus collectors. Each Server owns its
// own registry so tests can build servers side by side.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	searches *prometheus.CounterVec
}

func newMetrics(snap *core.Snapshot) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "searches_total",
			Help:      "Searches by kind (species, specimens) and outcome (prompt, empty, found).",
		}, []string{"kind", "outcome"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.searches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.registerSnapshot(snap)
	return m
}

// registerSnapshot exports the static shape of the served snapshot.
func (m *metrics) registerSnapshot(snap *core.Snapshot) {
	loaded := 0.0
	if snap != nil {
		loaded = 1
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "snapshot_loaded",
		Help:      "1 when reference data is loaded, 0 when serving the load error.",
	}, func() float64 { return loaded }))

	if snap == nil {
		return
	}

	stats := snap.Stats()
	records := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "snapshot_records",
		Help:      "Records in the served snapshot by list.",
	}, []string{"list"})
	records.WithLabelValues("species").Set(float64(stats.Species))
	records.WithLabelValues("specimens").Set(float64(stats.Specimens))
	records.WithLabelValues("unified").Set(float64(stats.Unified))

	warnings := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "snapshot_warnings",
		Help:      "Source warnings recorded while loading the snapshot.",
	})
	warnings.Set(float64(len(stats.Warnings)))

	loadedAt := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "snapshot_loaded_timestamp_seconds",
		Help:      "Unix time the snapshot was loaded.",
	})
	loadedAt.Set(float64(stats.LoadedAt.Unix()))

	m.registry.MustRegister(records, warnings, loadedAt)
}

// middleware records request counts and latency under the matched chi
// route pattern, so query strings never become label values.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// observeSearch counts one search by its outcome.
func (m *metrics) observeSearch(kind string, prompt bool, matches int) {
	if m == nil {
		return
	}
	outcome := outcomeFound
	switch {
	case prompt:
		outcome = outcomePrompt
	case matches == 0:
		outcome = outcomeEmpty
	}
	m.searches.WithLabelValues(kind, outcome).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{DisableCompression: true})
}
