// Package order реализует рабочий процесс создания заказа поверх защищённых
// фасадов зависимостей: проверка пользователя → проверка товара и остатка →
// запись заказа → best-effort списание остатка в каталоге.
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jcmicro/order-service/internal/domain"
	"github.com/jcmicro/order-service/internal/messaging/kafka"
	"github.com/jcmicro/order-service/internal/metrics"
)

// StockSyncPolicy — именованная политика обращения с неудачным списанием
// остатка после записи заказа. Атомарности между локальной записью и удалённым
// декрементом нет: политика определяет лишь, как виден разрыв.
type StockSyncPolicy string

const (
	// StockSyncBestEffort — сбой списания логируется и метрицируется,
	// запись заказа не меняется. Политика по умолчанию.
	StockSyncBestEffort StockSyncPolicy = "best_effort"
	// StockSyncFlagOrder — дополнительно заказ пересохраняется с
	// StockSynced=false, чтобы расхождение было видно на самой записи.
	StockSyncFlagOrder StockSyncPolicy = "flag_order"
)

// ValidPolicy проверяет, что политика входит в допустимый набор.
func ValidPolicy(p StockSyncPolicy) bool {
	return p == StockSyncBestEffort || p == StockSyncFlagOrder
}

// Service — оркестратор заказов и CRUD-операции над хранилищем.
type Service struct {
	orders   domain.OrderRepository
	users    domain.UserDirectory
	products domain.ProductCatalog
	policy   StockSyncPolicy
	logger   *log.Entry
	metrics  *metrics.OrderMetrics
	producer *kafka.Producer // опциональный publisher событий заказов
}

// NewService создаёт рабочий экземпляр оркестратора.
func NewService(
	orders domain.OrderRepository,
	users domain.UserDirectory,
	products domain.ProductCatalog,
	policy StockSyncPolicy,
	logger *log.Entry,
) *Service {
	s := newService(orders, users, products, policy, logger)
	s.metrics = metrics.NewOrderMetrics()
	return s
}

// NewServiceWithKafka создаёт оркестратор, публикующий события заказов в Kafka.
func NewServiceWithKafka(
	orders domain.OrderRepository,
	users domain.UserDirectory,
	products domain.ProductCatalog,
	policy StockSyncPolicy,
	producer *kafka.Producer,
	logger *log.Entry,
) *Service {
	s := NewService(orders, users, products, policy, logger)
	s.producer = producer
	return s
}

// NewServiceWithoutMetrics создаёт оркестратор без метрик (для тестов).
func NewServiceWithoutMetrics(
	orders domain.OrderRepository,
	users domain.UserDirectory,
	products domain.ProductCatalog,
	policy StockSyncPolicy,
	logger *log.Entry,
) *Service {
	return newService(orders, users, products, policy, logger)
}

func newService(
	orders domain.OrderRepository,
	users domain.UserDirectory,
	products domain.ProductCatalog,
	policy StockSyncPolicy,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	if !ValidPolicy(policy) {
		policy = StockSyncBestEffort
	}
	return &Service{
		orders:   orders,
		users:    users,
		products: products,
		policy:   policy,
		logger:   logger,
	}
}

// CreateOrder выполняет полный цикл создания заказа. Любой отказ на шагах
// проверки всплывает до записи: частично созданных заказов не бывает.
// После успешной записи заказ существует независимо от исхода списания.
func (s *Service) CreateOrder(ctx context.Context, userID, productID string, qty int) (domain.Order, error) {
	start := time.Now()

	if err := validateCreate(userID, productID, qty); err != nil {
		s.recordFailed("validation", start)
		return domain.Order{}, err
	}

	// Проверка пользователя — жёсткое предусловие: до каталога при её
	// провале дело не доходит.
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("user validation failed")
		s.recordFailed(failureKind(err, "user_not_found"), start)
		return domain.Order{}, err
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		s.logger.WithError(err).WithField("product_id", productID).Warn("product validation failed")
		s.recordFailed(failureKind(err, "product_not_found"), start)
		return domain.Order{}, err
	}

	if qty > product.Stock {
		s.logger.WithFields(log.Fields{
			"product_id": product.ID,
			"requested":  qty,
			"available":  product.Stock,
		}).Info("order rejected: insufficient stock")
		s.recordFailed("insufficient_stock", start)
		return domain.Order{}, &domain.InsufficientStockError{
			ProductID: product.ID,
			Requested: qty,
			Available: product.Stock,
		}
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		ProductID:   product.ID,
		Qty:         qty,
		Status:      domain.OrderStatusPending,
		StockSynced: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Точка долговечности: после Create заказ существует независимо от
	// того, что случится дальше.
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("persist order failed")
		s.recordFailed("storage", start)
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	if err := s.products.DecrementStock(ctx, product.ID, qty); err != nil {
		order = s.handleStockSyncFailure(ctx, order, err)
	}

	if s.metrics != nil {
		s.metrics.RecordCreated()
		s.metrics.RecordCreateDuration("success", time.Since(start))
	}
	s.publishEvent(kafka.EventTypeOrderCreated, &order, nil)
	s.logger.WithFields(log.Fields{
		"order_id":   order.ID,
		"user_id":    order.UserID,
		"product_id": order.ProductID,
		"qty":        order.Qty,
	}).Info("order created")

	return order, nil
}

// handleStockSyncFailure применяет выбранную политику к неудачному списанию.
// Запись заказа ни при какой политике не откатывается.
func (s *Service) handleStockSyncFailure(ctx context.Context, order domain.Order, cause error) domain.Order {
	s.logger.WithError(cause).WithFields(log.Fields{
		"order_id":   order.ID,
		"product_id": order.ProductID,
		"qty":        order.Qty,
		"policy":     string(s.policy),
	}).Warn(domain.ErrStockSyncFailed.Error())
	if s.metrics != nil {
		s.metrics.RecordStockSyncFailure()
	}
	s.publishEvent(kafka.EventTypeStockSyncFailed, &order, map[string]interface{}{
		"error": cause.Error(),
	})

	if s.policy != StockSyncFlagOrder {
		return order
	}

	order.StockSynced = false
	order.UpdatedAt = time.Now().UTC()
	if err := s.orders.Save(ctx, order); err != nil {
		// Флаг не записался — расхождение остаётся видимым только в логах и метриках.
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to flag stock sync failure")
		order.StockSynced = true
	}
	return order
}

// Get возвращает заказ или ErrOrderNotFound.
func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.orders.Get(ctx, id)
}

// List возвращает все заказы.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// Update меняет количество и статус существующего заказа.
func (s *Service) Update(ctx context.Context, id string, qty int, status domain.OrderStatus) (domain.Order, error) {
	var verrs domain.ValidationErrors
	if qty < 1 {
		verrs = append(verrs, domain.ValidationError{Field: "quantity", Message: domain.ErrQtyInvalid.Error()})
	}
	if !domain.ValidStatus(status) {
		verrs = append(verrs, domain.ValidationError{Field: "status", Message: domain.ErrStatusInvalid.Error()})
	}
	if len(verrs) > 0 {
		return domain.Order{}, verrs
	}

	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	order.Qty = qty
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	if err := s.orders.Save(ctx, order); err != nil {
		return domain.Order{}, err
	}

	s.publishEvent(kafka.EventTypeOrderUpdated, &order, nil)
	return order, nil
}

// Delete удаляет заказ или возвращает ErrOrderNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(kafka.EventTypeOrderDeleted, &order, nil)
	return nil
}

// validateCreate — явные предусловия на границе рабочего процесса.
// Замечания возвращаются списком, а не исключениями по одному.
func validateCreate(userID, productID string, qty int) error {
	var verrs domain.ValidationErrors
	if strings.TrimSpace(userID) == "" {
		verrs = append(verrs, domain.ValidationError{Field: "user_id", Message: domain.ErrUserIDRequired.Error()})
	}
	if strings.TrimSpace(productID) == "" {
		verrs = append(verrs, domain.ValidationError{Field: "product_id", Message: domain.ErrProductIDRequired.Error()})
	}
	if qty < 1 {
		verrs = append(verrs, domain.ValidationError{Field: "quantity", Message: domain.ErrQtyInvalid.Error()})
	}
	if len(verrs) > 0 {
		return verrs
	}
	return nil
}

// failureKind выбирает метку класса отказа для метрик.
func failureKind(err error, notFoundKind string) string {
	if domain.IsDependencyUnavailable(err) {
		return "dependency_unavailable"
	}
	return notFoundKind
}

func (s *Service) recordFailed(kind string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordFailed(kind)
	s.metrics.RecordCreateDuration("failure", time.Since(start))
}

// publishEvent публикует событие заказа в Kafka (если producer настроен).
func (s *Service) publishEvent(eventType kafka.EventType, order *domain.Order, metadata map[string]interface{}) {
	if s.producer == nil {
		return
	}

	event := kafka.NewOrderEvent(eventType, order.ID, order.UserID, order.ProductID, string(order.Status), metadata)
	if err := s.producer.PublishEvent(kafka.TopicOrderEvents, order.ID, event); err != nil {
		// Kafka опциональна: сбой публикации не влияет на судьбу заказа.
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   order.ID,
		}).Warn("failed to publish order event to kafka")
	}
}
