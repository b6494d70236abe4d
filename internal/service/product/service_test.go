package product

import (
	"context"
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jcmicro/order-service/internal/clients"
	"github.com/jcmicro/order-service/internal/domain"
	"github.com/jcmicro/order-service/internal/resilience"
)

type stubClient struct {
	snapshot     domain.ProductSnapshot
	getErr       error
	decrementErr error

	getCalls       int
	decrementCalls int
}

func (c *stubClient) GetProduct(ctx context.Context, id string) (domain.ProductSnapshot, error) {
	c.getCalls++
	if c.getErr != nil {
		return domain.ProductSnapshot{}, c.getErr
	}
	return c.snapshot, nil
}

func (c *stubClient) DecrementStock(ctx context.Context, id string, qty int) error {
	c.decrementCalls++
	return c.decrementErr
}

func newFacade() *resilience.Facade {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	entry := logger.WithField("component", "test")

	breaker := resilience.NewBreaker("product-service", resilience.BreakerConfig{
		FailureRatio: 0.5,
		MinRequests:  100,
		Interval:     time.Minute,
		OpenTimeout:  time.Minute,
		ProbeCalls:   1,
	}, entry, nil)
	retry := resilience.RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2.0}
	return resilience.NewFacade("product-service", nil, breaker, retry, domain.ErrProductNotFound, entry, nil)
}

func TestGetProductReturnsSnapshot(t *testing.T) {
	client := &stubClient{snapshot: domain.ProductSnapshot{ID: "7", Name: "Widget", Price: 9.99, Stock: 10}}
	svc := NewService(client, newFacade())

	product, err := svc.GetProduct(context.Background(), "7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ID != "7" || product.Stock != 10 {
		t.Errorf("product = %+v, want snapshot 7 with stock 10", product)
	}
}

func TestGetProductNotFound(t *testing.T) {
	client := &stubClient{getErr: clients.ErrNotFound}
	svc := NewService(client, newFacade())

	_, err := svc.GetProduct(context.Background(), "404")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}

func TestDecrementStockSuccess(t *testing.T) {
	client := &stubClient{}
	svc := NewService(client, newFacade())

	if err := svc.DecrementStock(context.Background(), "7", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.decrementCalls != 1 {
		t.Errorf("decrementCalls = %d, want 1", client.decrementCalls)
	}
}

func TestDecrementStockUnavailable(t *testing.T) {
	client := &stubClient{decrementErr: clients.ErrConnection}
	svc := NewService(client, newFacade())

	err := svc.DecrementStock(context.Background(), "7", 3)
	if !domain.IsDependencyUnavailable(err) {
		t.Fatalf("err = %v, want DependencyUnavailableError", err)
	}
	if client.decrementCalls != 2 {
		t.Errorf("decrementCalls = %d, want both retry attempts used", client.decrementCalls)
	}
}
