// Package user реализует защищённый фасад справочника пользователей:
// единственную точку, через которую оркестратор ходит за пользователями.
package user

import (
	"context"

	"github.com/jcmicro/order-service/internal/domain"
	"github.com/jcmicro/order-service/internal/resilience"
)

// Client — тонкий клиент справочника без защитной логики.
type Client interface {
	GetUser(ctx context.Context, id string) (domain.UserSnapshot, error)
}

// Service оборачивает клиент справочника resilience-фасадом.
type Service struct {
	client Client
	facade *resilience.Facade
}

// NewService создаёт фасад справочника пользователей.
func NewService(client Client, facade *resilience.Facade) *Service {
	return &Service{client: client, facade: facade}
}

// GetUser возвращает снапшот пользователя. Любой сбой сведён к ErrUserNotFound
// или DependencyUnavailableError.
func (s *Service) GetUser(ctx context.Context, id string) (domain.UserSnapshot, error) {
	res, err := s.facade.Execute(ctx, "get_user", func(callCtx context.Context) (any, error) {
		return s.client.GetUser(callCtx, id)
	})
	if err != nil {
		return domain.UserSnapshot{}, err
	}
	return res.(domain.UserSnapshot), nil
}

var _ domain.UserDirectory = (*Service)(nil)
