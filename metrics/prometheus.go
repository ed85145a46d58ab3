// Package metrics records model loads, predictions and HTTP requests with Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "forecast_dashboard"

// Recorder implements the model store, predictor and HTTP recorders using Prometheus. Every
// recorder owns its registry so several can live in one process.
type Recorder struct {
	registry *prometheus.Registry

	modelLoads       *prometheus.CounterVec
	modelLoadLatency *prometheus.HistogramVec
	predictions      *prometheus.CounterVec
	predictLatency   *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder. With process set the Go runtime and process
// collectors are registered as well.
func New(process bool) *Recorder {
	reg := prometheus.NewRegistry()
	if process {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		modelLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_loads_total",
				Help:      "Total number of model file loads",
			},
			[]string{"metric", "status"},
		),
		modelLoadLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "model_load_duration_seconds",
				Help:      "Duration of model file loads in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"metric"},
		),
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Total number of date predictions",
			},
			[]string{"cache"},
		),
		predictLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "prediction_duration_seconds",
				Help:      "Duration of date predictions in seconds",
				Buckets:   []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"cache"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "class"},
		),
	}
}

// RecordModelLoad records the outcome and duration of loading one model file.
func (r *Recorder) RecordModelLoad(metric string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.modelLoads.WithLabelValues(metric, status).Inc()
	r.modelLoadLatency.WithLabelValues(metric).Observe(seconds)
}

// RecordPrediction records a date prediction and whether it was served from the cache.
func (r *Recorder) RecordPrediction(cacheHit bool, seconds float64) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	r.predictions.WithLabelValues(cache).Inc()
	r.predictLatency.WithLabelValues(cache).Observe(seconds)
}

// RecordRequest records a served HTTP request. Route should be the route template to keep
// label cardinality low.
func (r *Recorder) RecordRequest(route, method string, status int, latency time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(route, method, statusClass(status)).Observe(latency.Seconds())
}

// Handler exposes the recorded metrics for scraping
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the registry the metrics are registered with
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func statusClass(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
