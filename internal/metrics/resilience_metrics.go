package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ResilienceMetrics содержит метрики защитного слоя вокруг удалённых вызовов.
type ResilienceMetrics struct {
	// Счётчики исходов по зависимостям
	callFailures  *prometheus.CounterVec
	retryAttempts *prometheus.CounterVec

	// Гистограмма времени вызова через фасад
	callDuration *prometheus.HistogramVec

	// Состояние circuit breaker: 0 = closed, 1 = half-open, 2 = open
	breakerState *prometheus.GaugeVec
}

// NewResilienceMetrics создаёт метрики защитного слоя в default registry.
func NewResilienceMetrics() *ResilienceMetrics {
	return newResilienceMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newResilienceMetricsWithRegisterer(registerer prometheus.Registerer) *ResilienceMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ResilienceMetrics{
		callFailures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_dependency_failures_total",
			Help: "Total classified dependency call failures",
		}, []string{"dependency", "reason"}),
		retryAttempts: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_dependency_retries_total",
			Help: "Total retry attempts issued against dependencies",
		}, []string{"dependency"}),
		callDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "orders_dependency_call_duration_seconds",
			Help:    "Duration of resilient dependency calls in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"dependency", "operation"}),
		breakerState: registerGaugeVec(registerer, prometheus.GaugeOpts{
			Name: "orders_circuit_breaker_state",
			Help: "Circuit breaker state per dependency (0 closed, 1 half-open, 2 open)",
		}, []string{"dependency"}),
	}
}

// RecordFailure увеличивает счётчик классифицированных отказов зависимости.
func (m *ResilienceMetrics) RecordFailure(dependency, reason string) {
	m.callFailures.WithLabelValues(dependency, reason).Inc()
}

// RecordRetry увеличивает счётчик повторных попыток.
func (m *ResilienceMetrics) RecordRetry(dependency string) {
	m.retryAttempts.WithLabelValues(dependency).Inc()
}

// RecordCallDuration записывает длительность вызова через фасад.
func (m *ResilienceMetrics) RecordCallDuration(dependency, operation string, duration time.Duration) {
	m.callDuration.WithLabelValues(dependency, operation).Observe(duration.Seconds())
}

// SetBreakerState публикует текущее состояние circuit breaker.
func (m *ResilienceMetrics) SetBreakerState(dependency string, state float64) {
	m.breakerState.WithLabelValues(dependency).Set(state)
}
