// Package http — REST-поверхность сервиса заказов поверх gin.
// Вся доменная логика живёт уровнем ниже; здесь только binding, маппинг
// ошибок на статусы и сериализация ответов.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/jcmicro/order-service/internal/domain"
	"github.com/jcmicro/order-service/internal/service/order"
	"github.com/jcmicro/order-service/internal/validation"
)

// Handler связывает HTTP-запросы с сервисом заказов.
type Handler struct {
	orders   *order.Service
	validate *validatorv10.Validate
	logger   *log.Entry
}

// NewHandler создаёт HTTP-обработчики заказов.
func NewHandler(orders *order.Service, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	return &Handler{
		orders:   orders,
		validate: validation.New(),
		logger:   logger,
	}
}

func (h *Handler) createOrder(c *gin.Context) {
	var req validation.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "Malformed request body", []string{err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeDomainError(c, validation.ToDomain(err))
		return
	}

	created, err := h.orders.CreateOrder(c.Request.Context(), req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(created))
}

func (h *Handler) getOrder(c *gin.Context) {
	found, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(found))
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) updateOrder(c *gin.Context) {
	var req validation.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "Malformed request body", []string{err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeDomainError(c, validation.ToDomain(err))
		return
	}

	updated, err := h.orders.Update(c.Request.Context(), c.Param("id"), req.Quantity, domain.OrderStatus(req.Status))
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(updated))
}

func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeDomainError отображает доменную ошибку на HTTP-статус:
// not-found → 404, бизнес-отказы и валидация → 400, недоступность
// зависимостей → 502, всё остальное → 500.
func (h *Handler) writeDomainError(c *gin.Context, err error) {
	var verrs domain.ValidationErrors
	var stockErr *domain.InsufficientStockError
	var depErr *domain.DependencyUnavailableError

	switch {
	case errors.As(err, &verrs):
		details := make([]string, 0, len(verrs))
		for _, ve := range verrs {
			details = append(details, ve.Error())
		}
		h.writeError(c, http.StatusBadRequest, "Validation failed", details)
	case errors.Is(err, domain.ErrUserNotFound):
		h.writeError(c, http.StatusNotFound, "User not found", []string{err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		h.writeError(c, http.StatusNotFound, "Product not found", []string{err.Error()})
	case errors.Is(err, domain.ErrOrderNotFound):
		h.writeError(c, http.StatusNotFound, "Order not found", []string{err.Error()})
	case errors.As(err, &stockErr):
		h.writeError(c, http.StatusBadRequest, "Insufficient stock", []string{stockErr.Error()})
	case errors.As(err, &depErr):
		h.writeError(c, http.StatusBadGateway, "External service error", []string{depErr.Error()})
	default:
		h.logger.WithError(err).Error("unhandled error in http layer")
		h.writeError(c, http.StatusInternalServerError, "Internal Server Error", []string{err.Error()})
	}
}

func (h *Handler) writeError(c *gin.Context, status int, message string, details []string) {
	c.JSON(status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     message,
		Details:   details,
	})
}
