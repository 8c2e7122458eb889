package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "transitroute"

// Metrics collects Prometheus metrics for the service. It implements every
// hook interface of the observability package.
type Metrics struct {
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	routesLoaded prometheus.Gauge
	stopsLoaded  prometheus.Gauge
	skipped      prometheus.Counter

	resolves        *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	graphs          *prometheus.CounterVec
	graphEdges      prometheus.Gauge

	cacheOps   *prometheus.CounterVec
	cacheBytes prometheus.Counter

	upstream         *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamErrors   *prometheus.CounterVec
}

// NewMetrics registers the service metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "network",
			Name:      "loads_total",
			Help:      "Network loads by status",
		}, []string{"status"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "network",
			Name:      "load_duration_seconds",
			Help:      "Time to load the network from the API",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		routesLoaded: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "network",
			Name:      "routes",
			Help:      "Routes in the last loaded network",
		}),
		stopsLoaded: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "network",
			Name:      "stops",
			Help:      "Unique stops in the last loaded network",
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "network",
			Name:      "routes_skipped_total",
			Help:      "Routes left out of a load because their stops could not be fetched",
		}),
		resolves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "query",
			Name:      "resolves_total",
			Help:      "Resolved queries by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		resolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "query",
			Name:      "resolve_duration_seconds",
			Help:      "Path resolution latency",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}),
		graphs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "query",
			Name:      "graph_lookups_total",
			Help:      "Adjacency graph lookups by cache result",
		}, []string{"cached"}),
		graphEdges: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "query",
			Name:      "graph_edges",
			Help:      "Edges in the most recently used adjacency graph",
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache operations by key type and result",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}),
		upstream: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "upstream",
			Name:      "responses_total",
			Help:      "Upstream API responses by host and status code",
		}, []string{"host", "code"}),
		upstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Upstream API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		upstreamErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "upstream",
			Name:      "errors_total",
			Help:      "Upstream transport failures by host",
		}, []string{"host"}),
	}
}

// Network hooks

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, routes, stops int, d time.Duration, err error) {
	if err != nil {
		m.loads.WithLabelValues("error").Inc()
		return
	}
	m.loads.WithLabelValues("ok").Inc()
	m.loadDuration.Observe(d.Seconds())
	m.routesLoaded.Set(float64(routes))
	m.stopsLoaded.Set(float64(stops))
}

func (m *Metrics) OnRouteSkipped(context.Context, string, error) { m.skipped.Inc() }

// Query hooks

func (m *Metrics) OnResolve(_ context.Context, strategy string, found bool, d time.Duration, err error) {
	outcome := "found"
	switch {
	case err != nil:
		outcome = "error"
	case !found:
		outcome = "no_path"
	}
	if strategy == "" {
		strategy = "none"
	}
	m.resolves.WithLabelValues(strategy, outcome).Inc()
	m.resolveDuration.Observe(d.Seconds())
}

func (m *Metrics) OnGraphBuild(_ context.Context, _, edges int, cached bool) {
	m.graphs.WithLabelValues(strconv.FormatBool(cached)).Inc()
	m.graphEdges.Set(float64(edges))
}

// Cache hooks

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

// HTTP hooks

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	m.upstream.WithLabelValues(host, strconv.Itoa(code)).Inc()
	m.upstreamDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.upstreamErrors.WithLabelValues(host).Inc()
}
