package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, дальнейшие шаги ещё не выполнены.
	// Единственный статус, который порождает CreateOrder.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed — заказ подтверждён (зарезервировано на будущее).
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusCanceled — заказ отменён (зарезервировано на будущее).
	OrderStatusCanceled OrderStatus = "canceled"
)

// ValidStatus проверяет, что статус входит в допустимый набор.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCanceled:
		return true
	}
	return false
}

// Order агрегирует состояние заказа.
type Order struct {
	ID        string
	UserID    string
	ProductID string
	Qty       int
	Status    OrderStatus
	// StockSynced показывает, подтверждено ли списание остатка в каталоге.
	// Сбрасывается в false политикой flag_order при неудачном декременте.
	StockSynced bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserIDRequired)
	}
	if o.ProductID == "" {
		errs = append(errs, ErrProductIDRequired)
	}
	if o.Qty < 1 {
		errs = append(errs, ErrQtyInvalid)
	}
	if o.Status != "" && !ValidStatus(o.Status) {
		errs = append(errs, ErrStatusInvalid)
	}

	return errs
}
