package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/iwvelando/site-payouts/internal/allocation"
	"github.com/iwvelando/site-payouts/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "payouts"

// Metrics holds the collectors for one handler. Each handler gets its own
// registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	Calculations        *prometheus.CounterVec
	CalculationDuration prometheus.Histogram
	RequestsTotal       *prometheus.CounterVec
	StoreOperations     *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Calculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "calculations_total",
				Help:      "Payment calculations by outcome",
			},
			[]string{"outcome"},
		),
		CalculationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "calculation_duration_seconds",
				Help:      "Time spent allocating one report",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		StoreOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "store_operations_total",
				Help:      "Tenant store calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeCalculation(elapsed time.Duration, err error) {
	m.CalculationDuration.Observe(elapsed.Seconds())
	switch {
	case err == nil:
		m.Calculations.WithLabelValues("success").Inc()
	case errors.Is(err, allocation.ErrInvalidInput):
		m.Calculations.WithLabelValues("invalid").Inc()
	default:
		m.Calculations.WithLabelValues("error").Inc()
	}
}

// instrumentStore counts every Get and Put that reaches s.
func (m *Metrics) instrumentStore(s store.Store) store.Store {
	return &instrumentedStore{Store: s, metrics: m}
}

type instrumentedStore struct {
	store.Store
	metrics *Metrics
}

func (s *instrumentedStore) Get(ctx context.Context, tenantID string) (allocation.Data, error) {
	data, err := s.Store.Get(ctx, tenantID)
	s.metrics.StoreOperations.WithLabelValues("get", storeOutcome(err)).Inc()
	return data, err
}

func (s *instrumentedStore) Put(ctx context.Context, tenantID string, data allocation.Data) error {
	err := s.Store.Put(ctx, tenantID, data)
	s.metrics.StoreOperations.WithLabelValues("put", storeOutcome(err)).Inc()
	return err
}

func storeOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// statusRecorder remembers the status code a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
