package user

import (
	"context"

	"github.com/jcmicro/order-service/internal/domain"
)

// MockDirectory — конфигурируемая заглушка UserDirectory для тестов.
type MockDirectory struct {
	Snapshot domain.UserSnapshot
	Err      error

	GetCalls int
}

// NewMockDirectory возвращает mock с успешным сценарием по умолчанию.
func NewMockDirectory() *MockDirectory {
	return &MockDirectory{}
}

// GetUser возвращает заранее настроенный снапшот или ошибку и считает вызовы.
func (m *MockDirectory) GetUser(ctx context.Context, id string) (domain.UserSnapshot, error) {
	m.GetCalls++
	if m.Err != nil {
		return domain.UserSnapshot{}, m.Err
	}
	if m.Snapshot.ID == "" {
		return domain.UserSnapshot{ID: id}, nil
	}
	return m.Snapshot, nil
}

var _ domain.UserDirectory = (*MockDirectory)(nil)
