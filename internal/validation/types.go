package validation

// CreateOrderRequest — payload для POST /orders.
type CreateOrderRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// UpdateOrderRequest — payload для PUT /orders/:id.
type UpdateOrderRequest struct {
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Status   string `json:"status" validate:"required,oneof=pending confirmed canceled"`
}
