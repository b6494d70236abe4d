package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestResilienceMetricsRecord(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newResilienceMetricsWithRegisterer(registry)

	m.RecordFailure("user-service", "connect failure")
	m.RecordFailure("user-service", "connect failure")
	m.RecordFailure("product-service", "circuit open")
	m.RecordRetry("user-service")
	m.RecordCallDuration("user-service", "get_user", 15*time.Millisecond)
	m.SetBreakerState("user-service", 2)

	if got := testutil.ToFloat64(m.callFailures.WithLabelValues("user-service", "connect failure")); got != 2 {
		t.Errorf("user-service connect failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.callFailures.WithLabelValues("product-service", "circuit open")); got != 1 {
		t.Errorf("product-service circuit open failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.retryAttempts.WithLabelValues("user-service")); got != 1 {
		t.Errorf("retries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("user-service")); got != 2 {
		t.Errorf("breaker state = %v, want 2", got)
	}
}

func TestOrderMetricsRecord(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordCreated()
	m.RecordCreated()
	m.RecordFailed("insufficient_stock")
	m.RecordStockSyncFailure()
	m.RecordCreateDuration("success", 40*time.Millisecond)

	if got := testutil.ToFloat64(m.ordersCreated); got != 2 {
		t.Errorf("created = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ordersFailed.WithLabelValues("insufficient_stock")); got != 1 {
		t.Errorf("failed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.stockSyncFailures); got != 1 {
		t.Errorf("stock sync failures = %v, want 1", got)
	}
}

func TestDuplicateRegistrationReusesCollector(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(registry)
	second := newOrderMetricsWithRegisterer(registry)

	first.RecordCreated()
	second.RecordCreated()

	// Повторная регистрация возвращает существующий collector, счёт общий.
	if got := testutil.ToFloat64(second.ordersCreated); got != 2 {
		t.Errorf("created = %v, want shared counter at 2", got)
	}
}

func TestNilRegistererFallsBackToDefault(t *testing.T) {
	m := newResilienceMetricsWithRegisterer(nil)
	if m == nil || m.callFailures == nil {
		t.Fatal("metrics not constructed with default registerer")
	}
}
