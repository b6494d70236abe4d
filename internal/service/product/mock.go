package product

import (
	"context"

	"github.com/jcmicro/order-service/internal/domain"
)

// MockCatalog — конфигурируемая заглушка ProductCatalog для тестов.
type MockCatalog struct {
	Snapshot     domain.ProductSnapshot
	GetErr       error
	DecrementErr error

	GetCalls       int
	DecrementCalls int
	// Последние аргументы DecrementStock для проверок в тестах.
	LastDecrementID  string
	LastDecrementQty int
}

// NewMockCatalog возвращает mock с успешным сценарием по умолчанию.
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{}
}

// GetProduct возвращает заранее настроенный снапшот или ошибку и считает вызовы.
func (m *MockCatalog) GetProduct(ctx context.Context, id string) (domain.ProductSnapshot, error) {
	m.GetCalls++
	if m.GetErr != nil {
		return domain.ProductSnapshot{}, m.GetErr
	}
	if m.Snapshot.ID == "" {
		return domain.ProductSnapshot{ID: id}, nil
	}
	return m.Snapshot, nil
}

// DecrementStock запоминает аргументы и возвращает заранее настроенную ошибку.
func (m *MockCatalog) DecrementStock(ctx context.Context, id string, qty int) error {
	m.DecrementCalls++
	m.LastDecrementID = id
	m.LastDecrementQty = qty
	return m.DecrementErr
}

var _ domain.ProductCatalog = (*MockCatalog)(nil)
