package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records hook events as Prometheus metrics on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	LayoutsTotal      *prometheus.CounterVec
	LayoutDuration    prometheus.Histogram
	LayoutNodes       prometheus.Histogram
	LayoutCrossings   prometheus.Histogram
	LayoutDiagnostics prometheus.Counter
	RendersTotal      *prometheus.CounterVec
	RenderDuration    prometheus.Histogram
	CacheLookups      *prometheus.CounterVec
	CacheWrittenBytes *prometheus.CounterVec
	HTTPInFlight      prometheus.Gauge
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		LayoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "genogram_layouts_total",
			Help: "Layouts computed, by status",
		}, []string{"status"}),
		LayoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "genogram_layout_duration_seconds",
			Help:    "Time spent computing a layout",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		LayoutNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "genogram_layout_nodes",
			Help:    "Nodes placed per layout",
			Buckets: prometheus.ExponentialBuckets(4, 4, 7),
		}),
		LayoutCrossings: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "genogram_layout_crossings",
			Help:    "Edge crossings left per layout",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		LayoutDiagnostics: f.NewCounter(prometheus.CounterOpts{
			Name: "genogram_layout_diagnostics_total",
			Help: "Diagnostics reported by layouts",
		}),
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "genogram_renders_total",
			Help: "Render runs, by status",
		}, []string{"status"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "genogram_render_duration_seconds",
			Help:    "Time spent rendering all requested formats",
			Buckets: prometheus.DefBuckets,
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "genogram_cache_lookups_total",
			Help: "Cache lookups, by key type and result",
		}, []string{"type", "result"}),
		CacheWrittenBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "genogram_cache_written_bytes_total",
			Help: "Bytes written to the cache, by key type",
		}, []string{"type"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "genogram_http_requests_in_flight",
			Help: "HTTP requests being served",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "genogram_http_requests_total",
			Help: "HTTP requests, by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "genogram_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, _ string, r LayoutReport, d time.Duration, err error) {
	m.LayoutsTotal.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	m.LayoutDuration.Observe(d.Seconds())
	m.LayoutNodes.Observe(float64(r.Nodes))
	m.LayoutCrossings.Observe(float64(r.Crossings))
	m.LayoutDiagnostics.Add(float64(r.Diagnostics))
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.RendersTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.RenderDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.HTTPInFlight.Dec()
	route = routeLabel(route)
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// routeLabel trims a route to keep label cardinality bounded.
func routeLabel(route string) string {
	if route == "" {
		return "unmatched"
	}
	return strings.TrimSuffix(route, "/*")
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
