package service

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the extraction boundary.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	extractionDuration *prometheus.HistogramVec
	extractionTotal    *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors. The storedEvents
// gauge reads the live event count from the provided func.
func NewMetricsService(storedEvents func() int) *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	extractionDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "extraction_duration_seconds",
		Help:    "Latency of extraction collaborator calls",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"outcome"})

	extractionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extraction_requests_total",
		Help: "Total extraction collaborator calls by outcome",
	}, []string{"outcome"})

	eventsGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "calendar_events_total",
		Help: "Number of events currently in the store",
	}, func() float64 {
		if storedEvents == nil {
			return 0
		}
		return float64(storedEvents())
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, extractionDuration, extractionTotal, eventsGauge, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		extractionDuration: extractionDuration,
		extractionTotal:    extractionTotal,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, httpStatusLabel(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveExtraction records one collaborator call outcome. Implements the
// assistant's ExtractionObserver.
func (s *MetricsService) ObserveExtraction(outcome string, duration time.Duration) {
	s.extractionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	s.extractionTotal.WithLabelValues(outcome).Inc()
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
