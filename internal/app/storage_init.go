package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jcmicro/order-service/internal/domain"
	"github.com/jcmicro/order-service/internal/storage/memory"
	"github.com/jcmicro/order-service/internal/storage/postgres"
)

// initStorage выбирает хранилище заказов по конфигурации.
// Для postgres возвращает также store, который нужно закрыть при остановке.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (domain.OrderRepository, *postgres.Store, error) {
	switch cfg.Storage {
	case "", "memory":
		logger.Info("using in-memory order storage")
		return memory.NewOrderRepository(), nil, nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("postgres storage requires ORDERS_POSTGRES_DSN")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		logger.Info("using postgres order storage")
		return postgres.NewOrderRepository(store), store, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
