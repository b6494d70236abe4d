package http

import (
	"time"

	"github.com/jcmicro/order-service/internal/domain"
)

// ErrorResponse — единый формат ошибки API.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Details   []string  `json:"details,omitempty"`
}

// OrderResponse — представление заказа в API.
type OrderResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProductID   string    `json:"product_id"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	StockSynced bool      `json:"stock_synced"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toOrderResponse(order domain.Order) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		ProductID:   order.ProductID,
		Quantity:    order.Qty,
		Status:      string(order.Status),
		StockSynced: order.StockSynced,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
