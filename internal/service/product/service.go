// Package product реализует защищённый фасад каталога товаров: чтение
// карточки и списание остатка через общую resilience-цепочку.
package product

import (
	"context"

	"github.com/jcmicro/order-service/internal/domain"
	"github.com/jcmicro/order-service/internal/resilience"
)

// Client — тонкий клиент каталога без защитной логики.
type Client interface {
	GetProduct(ctx context.Context, id string) (domain.ProductSnapshot, error)
	DecrementStock(ctx context.Context, id string, qty int) error
}

// Service оборачивает клиент каталога resilience-фасадом. Обе операции делят
// один breaker и один лимитер: недоступен каталог целиком, а не его методы.
type Service struct {
	client Client
	facade *resilience.Facade
}

// NewService создаёт фасад каталога товаров.
func NewService(client Client, facade *resilience.Facade) *Service {
	return &Service{client: client, facade: facade}
}

// GetProduct возвращает снапшот товара. Любой сбой сведён к ErrProductNotFound
// или DependencyUnavailableError.
func (s *Service) GetProduct(ctx context.Context, id string) (domain.ProductSnapshot, error) {
	res, err := s.facade.Execute(ctx, "get_product", func(callCtx context.Context) (any, error) {
		return s.client.GetProduct(callCtx, id)
	})
	if err != nil {
		return domain.ProductSnapshot{}, err
	}
	return res.(domain.ProductSnapshot), nil
}

// DecrementStock списывает qty единиц остатка у товара.
func (s *Service) DecrementStock(ctx context.Context, id string, qty int) error {
	_, err := s.facade.Execute(ctx, "decrement_stock", func(callCtx context.Context) (any, error) {
		return nil, s.client.DecrementStock(callCtx, id, qty)
	})
	return err
}

var _ domain.ProductCatalog = (*Service)(nil)
