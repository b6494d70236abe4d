package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jcmicro/order-service/internal/domain"
)

func sampleOrder(id string) domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:          id,
		UserID:      "42",
		ProductID:   "7",
		Qty:         1,
		Status:      domain.OrderStatusPending,
		StockSynced: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := NewOrderRepository()
	order := sampleOrder("o-1")

	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Get(context.Background(), "o-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != "42" || got.ProductID != "7" {
		t.Errorf("got = %+v, want sample order", got)
	}
}

func TestCreateDuplicate(t *testing.T) {
	repo := NewOrderRepository()
	order := sampleOrder("o-1")

	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(context.Background(), order); !errors.Is(err, domain.ErrOrderExists) {
		t.Errorf("duplicate create = %v, want ErrOrderExists", err)
	}
}

func TestGetMissing(t *testing.T) {
	repo := NewOrderRepository()
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("get missing = %v, want ErrOrderNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := NewOrderRepository()
	base := time.Now().UTC()

	for i := 0; i < 3; i++ {
		order := sampleOrder(fmt.Sprintf("o-%d", i))
		order.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := repo.Create(context.Background(), order); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	orders, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("len = %d, want 3", len(orders))
	}
	if orders[0].ID != "o-2" || orders[2].ID != "o-0" {
		t.Errorf("order ids = %s,%s,%s, want newest first", orders[0].ID, orders[1].ID, orders[2].ID)
	}
}

func TestSave(t *testing.T) {
	repo := NewOrderRepository()
	order := sampleOrder("o-1")
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("create: %v", err)
	}

	order.Qty = 5
	order.StockSynced = false
	if err := repo.Save(context.Background(), order); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := repo.Get(context.Background(), "o-1")
	if got.Qty != 5 || got.StockSynced {
		t.Errorf("got = %+v, want qty 5 and StockSynced=false", got)
	}

	if err := repo.Save(context.Background(), sampleOrder("missing")); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("save missing = %v, want ErrOrderNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo := NewOrderRepository()
	if err := repo.Create(context.Background(), sampleOrder("o-1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(context.Background(), "o-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(context.Background(), "o-1"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("second delete = %v, want ErrOrderNotFound", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	repo := NewOrderRepository()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("o-%d", i)
			_ = repo.Create(context.Background(), sampleOrder(id))
			_, _ = repo.Get(context.Background(), id)
			_, _ = repo.List(context.Background())
		}(i)
	}
	wg.Wait()

	orders, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 20 {
		t.Errorf("len = %d, want 20", len(orders))
	}
}
