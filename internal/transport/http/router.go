package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// NewRouter собирает gin-роутер с маршрутами заказов.
// timeout ограничивает обработку одного запроса; 0 — без ограничения.
func NewRouter(handler *Handler, logger *log.Entry, timeout time.Duration) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	if timeout > 0 {
		router.Use(requestTimeout(timeout))
	}

	router.POST("/orders", handler.createOrder)
	router.GET("/orders", handler.listOrders)
	router.GET("/orders/:id", handler.getOrder)
	router.PUT("/orders/:id", handler.updateOrder)
	router.DELETE("/orders/:id", handler.deleteOrder)

	return router
}

// requestTimeout привязывает к запросу контекст с дедлайном.
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requestLogger логирует каждый запрос в структурированном виде.
func requestLogger(logger *log.Entry) gin.HandlerFunc {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Info("request handled")
	}
}
