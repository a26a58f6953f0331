// Package metrics exposes Prometheus metrics for table traffic.
//
// All methods are safe on a nil *Metrics, which is how metrics are
// disabled.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one server. Each instance owns its
// registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	operationsTotal *prometheus.CounterVec
	loadTotal       *prometheus.CounterVec
	loadDuration    *prometheus.HistogramVec
	rowsLoaded      *prometheus.GaugeVec
	instances       prometheus.Gauge
	evictions       prometheus.Counter
}

// New creates and registers the collectors, plus the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datatable_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datatable_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datatable_operations_total",
				Help: "Table operations (filter, sort, page, columns, export) by dataset",
			},
			[]string{"operation", "dataset"},
		),
		loadTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datatable_source_loads_total",
				Help: "Dataset row loads by outcome",
			},
			[]string{"dataset", "status"},
		),
		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datatable_source_load_duration_seconds",
				Help:    "Dataset row load latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"dataset"},
		),
		rowsLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "datatable_source_rows",
				Help: "Row count of the last successful load per dataset",
			},
			[]string{"dataset"},
		),
		instances: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "datatable_instances",
			Help: "Open table instances",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "datatable_instance_evictions_total",
			Help: "Table instances evicted after idling past their TTL",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestTotal,
		m.requestDuration,
		m.operationsTotal,
		m.loadTotal,
		m.loadDuration,
		m.rowsLoaded,
		m.instances,
		m.evictions,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// IncOperation counts a table operation.
func (m *Metrics) IncOperation(operation, dataset string) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, dataset).Inc()
}

// ObserveLoad records a dataset load. rows is ignored when err is set.
func (m *Metrics) ObserveLoad(dataset string, rows int, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	} else {
		m.rowsLoaded.WithLabelValues(dataset).Set(float64(rows))
	}
	m.loadTotal.WithLabelValues(dataset, status).Inc()
	m.loadDuration.WithLabelValues(dataset).Observe(d.Seconds())
}

// SetInstances sets the open instance gauge.
func (m *Metrics) SetInstances(n int) {
	if m == nil {
		return
	}
	m.instances.Set(float64(n))
}

// AddEvictions counts evicted instances.
func (m *Metrics) AddEvictions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.evictions.Add(float64(n))
}
