package domain

import "context"

// OrderRepository — хранилище записей заказов. Запись одного заказа атомарна.
type OrderRepository interface {
	// Create сохраняет новый заказ; id должен быть уже назначен.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// List возвращает все заказы, отсортированные по времени создания (новые первыми).
	List(ctx context.Context) ([]Order, error)
	// Save перезаписывает существующий заказ или возвращает ErrOrderNotFound.
	Save(ctx context.Context, order Order) error
	// Delete удаляет заказ или возвращает ErrOrderNotFound.
	Delete(ctx context.Context, id string) error
}

// UserDirectory — защищённая точка входа к справочнику пользователей.
// Реализация скрывает rate limiter, circuit breaker и retry; наружу выходят
// только ErrUserNotFound и DependencyUnavailableError.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (UserSnapshot, error)
}

// ProductCatalog — защищённая точка входа к каталогу товаров.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (ProductSnapshot, error)
	// DecrementStock списывает qty единиц остатка у товара.
	DecrementStock(ctx context.Context, id string, qty int) error
}
