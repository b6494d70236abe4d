package kafka

import "time"

// EventType определяет тип события заказа.
type EventType string

const (
	EventTypeOrderCreated    EventType = "order.created"
	EventTypeOrderUpdated    EventType = "order.updated"
	EventTypeOrderDeleted    EventType = "order.deleted"
	EventTypeStockSyncFailed EventType = "order.stock_sync_failed"
)

// TopicOrderEvents — топик событий жизненного цикла заказов.
const TopicOrderEvents = "orders.events"

// OrderEvent представляет событие заказа.
type OrderEvent struct {
	EventType EventType              `json:"event_type"`
	OrderID   string                 `json:"order_id"`
	UserID    string                 `json:"user_id,omitempty"`
	ProductID string                 `json:"product_id,omitempty"`
	Status    string                 `json:"status,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создаёт событие заказа с текущим временем.
func NewOrderEvent(eventType EventType, orderID, userID, productID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		UserID:    userID,
		ProductID: productID,
		Status:    status,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}
