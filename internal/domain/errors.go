package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора пользователя.
	ErrUserIDRequired = errors.New("user_id is required")
	// Ошибка отсутствующего идентификатора товара.
	ErrProductIDRequired = errors.New("product_id is required")
	// Ошибка при некорректном количестве (< 1).
	ErrQtyInvalid = errors.New("quantity must be at least 1")
	// Ошибка при неизвестном статусе заказа.
	ErrStatusInvalid = errors.New("unknown order status")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderExists возвращается при попытке создать заказ с занятым id.
	ErrOrderExists = errors.New("order already exists")
	// ErrUserNotFound — справочник пользователей не знает такого id.
	ErrUserNotFound = errors.New("user not found")
	// ErrProductNotFound — каталог не знает такого id.
	ErrProductNotFound = errors.New("product not found")
	// ErrStockSyncFailed — декремент остатка после записи заказа не подтверждён.
	// Не фатальна для заказа: фиксируется и наблюдается, но не откатывает запись.
	ErrStockSyncFailed = errors.New("stock decrement not confirmed")
)

// UnavailableReason — нормализованная причина недоступности зависимости.
type UnavailableReason string

const (
	ReasonCircuitOpen UnavailableReason = "circuit open"
	ReasonRateLimited UnavailableReason = "rate limit exceeded"
	ReasonConnectFail UnavailableReason = "connect failure"
	ReasonTimeout     UnavailableReason = "timeout"
	ReasonUnexpected  UnavailableReason = "unexpected"
)

// DependencyUnavailableError — терминальная ошибка фасада: зависимость
// недоступна по одной из нормализованных причин. Классификация тотальна —
// любой сбой, не являющийся not-found, сводится к этому типу.
type DependencyUnavailableError struct {
	Dependency string
	Reason     UnavailableReason
	Err        error
}

func (e *DependencyUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable (%s): %v", e.Dependency, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s unavailable (%s)", e.Dependency, e.Reason)
}

func (e *DependencyUnavailableError) Unwrap() error { return e.Err }

// NewDependencyUnavailable создаёт ошибку недоступности зависимости.
func NewDependencyUnavailable(dependency string, reason UnavailableReason, cause error) error {
	return &DependencyUnavailableError{Dependency: dependency, Reason: reason, Err: cause}
}

// IsDependencyUnavailable проверяет, относится ли ошибка к классу недоступности.
func IsDependencyUnavailable(err error) bool {
	var ue *DependencyUnavailableError
	return errors.As(err, &ue)
}

// InsufficientStockError — бизнес-отказ: запрошено больше, чем есть на складе.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// IsInsufficientStock проверяет, является ли ошибка нехваткой остатка.
func IsInsufficientStock(err error) bool {
	var se *InsufficientStockError
	return errors.As(err, &se)
}

// ValidationError — одно замечание по входным данным запроса.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors агрегирует замечания по запросу; ошибки валидации
// возвращаются списком, а не по одной.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	msg := "validation failed: " + ve[0].Error()
	for _, e := range ve[1:] {
		msg += "; " + e.Error()
	}
	return msg
}

// IsValidation проверяет, является ли ошибка списком замечаний валидации.
func IsValidation(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
