package resilience

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jcmicro/order-service/internal/clients"
	"github.com/jcmicro/order-service/internal/domain"
	"github.com/jcmicro/order-service/internal/metrics"
)

// Facade собирает цепочку rate limiter → circuit breaker → retry вокруг
// одного удалённого вызова и сводит любой исход к доменной ошибке.
// Лимитер проверяется один раз, до retry-цикла: повторять в исчерпанный
// бюджет бессмысленно. Отказ разомкнутого breaker'а также не повторяется.
type Facade struct {
	name     string
	limiter  *RateLimiter
	breaker  *Breaker
	retry    RetryConfig
	notFound error
	logger   *log.Entry
	metrics  *metrics.ResilienceMetrics
}

// NewFacade создаёт фасад зависимости name. notFound — доменная ошибка,
// в которую транслируется ответ "сущности нет" от этой зависимости.
// metrics может быть nil (тесты).
func NewFacade(
	name string,
	limiter *RateLimiter,
	breaker *Breaker,
	retry RetryConfig,
	notFound error,
	logger *log.Entry,
	m *metrics.ResilienceMetrics,
) *Facade {
	if logger == nil {
		logger = log.New().WithField("component", "facade")
	}
	return &Facade{
		name:     name,
		limiter:  limiter,
		breaker:  breaker,
		retry:    retry,
		notFound: notFound,
		logger:   logger.WithField("dependency", name),
		metrics:  m,
	}
}

// Execute проводит вызов через всю защитную цепочку. Возвращает либо результат
// call, либо одну из доменных ошибок: notFound или DependencyUnavailableError.
// Никакой другой вид ошибки из фасада не выходит.
func (f *Facade) Execute(ctx context.Context, operation string, call func(context.Context) (any, error)) (any, error) {
	start := time.Now()
	defer func() {
		if f.metrics != nil {
			f.metrics.RecordCallDuration(f.name, operation, time.Since(start))
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, f.classify(operation, err)
	}

	if !f.limiter.Allow() {
		return nil, f.classify(operation, ErrRateLimited)
	}

	res, err := doWithRetry(ctx, f.logger, operation, f.retry, f.retryable, f.recordRetry, func() (any, error) {
		return f.breaker.Execute(func() (any, error) {
			return call(ctx)
		})
	})
	if err != nil {
		return nil, f.classify(operation, err)
	}
	return res, nil
}

// retryable решает, имеет ли смысл повторная попытка. Not-found и отказ
// breaker'а повторять бессмысленно; истёкший контекст — тем более.
// Неизвестные ошибки считаем временными и повторяем.
func (f *Facade) retryable(err error) bool {
	switch {
	case errors.Is(err, clients.ErrNotFound):
		return false
	case IsBreakerOpen(err):
		return false
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return false
	}
	return true
}

func (f *Facade) recordRetry() {
	if f.metrics != nil {
		f.metrics.RecordRetry(f.name)
	}
}

// classify сводит терминальную ошибку вызова к доменной ошибке. Отображение
// тотально: неклассифицированного сбоя из фасада выйти не может.
func (f *Facade) classify(operation string, err error) error {
	if errors.Is(err, clients.ErrNotFound) {
		f.logger.WithField("operation", operation).Info("entity not found in dependency")
		f.record("not_found")
		return f.notFound
	}

	var reason domain.UnavailableReason
	switch {
	case IsBreakerOpen(err):
		reason = domain.ReasonCircuitOpen
	case errors.Is(err, ErrRateLimited):
		reason = domain.ReasonRateLimited
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		reason = domain.ReasonTimeout
	case errors.Is(err, clients.ErrConnection):
		reason = domain.ReasonConnectFail
	default:
		reason = domain.ReasonUnexpected
	}

	f.logger.WithFields(log.Fields{
		"operation": operation,
		"reason":    string(reason),
		"error":     err,
	}).Warn("dependency call failed")
	f.record(string(reason))

	return domain.NewDependencyUnavailable(f.name, reason, err)
}

func (f *Facade) record(reason string) {
	if f.metrics != nil {
		f.metrics.RecordFailure(f.name, reason)
	}
}
