package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики рабочего процесса создания заказа.
type OrderMetrics struct {
	ordersCreated prometheus.Counter
	ordersFailed  *prometheus.CounterVec

	// Неподтверждённые списания остатка после записи заказа
	stockSyncFailures prometheus.Counter

	createDuration *prometheus.HistogramVec
}

// NewOrderMetrics создаёт метрики заказов в default registry.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders persisted successfully",
		}),
		ordersFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_create_failed_total",
			Help: "Total number of failed order creations by failure kind",
		}, []string{"kind"}),
		stockSyncFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_stock_sync_failures_total",
			Help: "Total number of unconfirmed stock decrements after order persist",
		}),
		createDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "orders_create_duration_seconds",
			Help:    "End-to-end duration of order creation in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
}

// RecordCreated увеличивает счётчик успешно созданных заказов.
func (m *OrderMetrics) RecordCreated() {
	m.ordersCreated.Inc()
}

// RecordFailed увеличивает счётчик неудачных созданий с указанием класса отказа.
func (m *OrderMetrics) RecordFailed(kind string) {
	m.ordersFailed.WithLabelValues(kind).Inc()
}

// RecordStockSyncFailure фиксирует неподтверждённое списание остатка.
func (m *OrderMetrics) RecordStockSyncFailure() {
	m.stockSyncFailures.Inc()
}

// RecordCreateDuration записывает длительность создания заказа.
func (m *OrderMetrics) RecordCreateDuration(outcome string, duration time.Duration) {
	m.createDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}
