package app

import (
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/jcmicro/order-service/internal/clients"
	"github.com/jcmicro/order-service/internal/domain"
	"github.com/jcmicro/order-service/internal/metrics"
	"github.com/jcmicro/order-service/internal/resilience"
	"github.com/jcmicro/order-service/internal/service/product"
	"github.com/jcmicro/order-service/internal/service/user"
)

// Dependencies содержит внешние зависимости приложения за защитным слоем.
type Dependencies struct {
	Users    domain.UserDirectory
	Products domain.ProductCatalog

	UserBreaker    *resilience.Breaker
	ProductBreaker *resilience.Breaker

	Metrics *metrics.ResilienceMetrics
	Logger  *log.Entry
}

// NewDependencies собирает клиентов удалённых сервисов и их защитные цепочки.
// Каждая зависимость получает собственный лимитер, breaker и политику ретраев.
func NewDependencies(cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	resMetrics := metrics.NewResilienceMetrics()
	onChange := breakerGauge(resMetrics)

	userClient, err := clients.NewUserClient(cfg.UserService.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	productClient, err := clients.NewProductClient(cfg.ProductService.BaseURL, nil)
	if err != nil {
		return nil, err
	}

	userBreaker := resilience.NewBreaker("user-service", cfg.UserService.Breaker, logger, onChange)
	userFacade := resilience.NewFacade(
		"user-service",
		resilience.NewRateLimiter(cfg.UserService.RateLimit),
		userBreaker,
		cfg.UserService.Retry,
		domain.ErrUserNotFound,
		logger,
		resMetrics,
	)

	productBreaker := resilience.NewBreaker("product-service", cfg.ProductService.Breaker, logger, onChange)
	productFacade := resilience.NewFacade(
		"product-service",
		resilience.NewRateLimiter(cfg.ProductService.RateLimit),
		productBreaker,
		cfg.ProductService.Retry,
		domain.ErrProductNotFound,
		logger,
		resMetrics,
	)

	return &Dependencies{
		Users:          user.NewService(userClient, userFacade),
		Products:       product.NewService(productClient, productFacade),
		UserBreaker:    userBreaker,
		ProductBreaker: productBreaker,
		Metrics:        resMetrics,
		Logger:         logger,
	}, nil
}

// breakerGauge отражает переходы состояний breaker в gauge-метрику.
func breakerGauge(m *metrics.ResilienceMetrics) resilience.StateListener {
	return func(dependency string, _, to gobreaker.State) {
		m.SetBreakerState(dependency, resilience.StateGaugeValue(to))
	}
}
