package resilience

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/jcmicro/order-service/internal/clients"
)

// BreakerConfig задаёт параметры автомата circuit breaker одной зависимости.
type BreakerConfig struct {
	// FailureRatio — доля отказов, при достижении которой breaker размыкается.
	FailureRatio float64
	// MinRequests — минимальная выборка, до которой FailureRatio не оценивается.
	MinRequests uint32
	// Interval — окно, по истечении которого статистика в closed обнуляется.
	Interval time.Duration
	// OpenTimeout — время в open до перехода в half-open.
	OpenTimeout time.Duration
	// ProbeCalls — сколько пробных вызовов впускается в half-open.
	ProbeCalls uint32
}

// DefaultBreakerConfig возвращает конфигурацию по умолчанию.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureRatio: 0.5,
		MinRequests:  5,
		Interval:     60 * time.Second,
		OpenTimeout:  10 * time.Second,
		ProbeCalls:   2,
	}
}

// StateListener уведомляется о переходах автомата (метрики, алерты).
type StateListener func(dependency string, from, to gobreaker.State)

// Breaker оборачивает gobreaker для одной зависимости. Состояние живёт весь
// процесс и разделяется всеми вызывающими; Reset пересоздаёт автомат с той же
// конфигурацией (используется в тестовых стендах).
type Breaker struct {
	name     string
	cfg      BreakerConfig
	logger   *log.Entry
	onChange StateListener

	mu sync.RWMutex
	cb *gobreaker.CircuitBreaker
}

// NewBreaker создаёт breaker для зависимости name.
func NewBreaker(name string, cfg BreakerConfig, logger *log.Entry, onChange StateListener) *Breaker {
	if logger == nil {
		logger = log.New().WithField("component", "circuit-breaker")
	}
	b := &Breaker{
		name:     name,
		cfg:      cfg,
		logger:   logger.WithField("dependency", name),
		onChange: onChange,
	}
	b.cb = b.newCircuitBreaker()
	return b
}

func (b *Breaker) newCircuitBreaker() *gobreaker.CircuitBreaker {
	cfg := b.cfg
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        b.name,
		MaxRequests: cfg.ProbeCalls,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		// Not-found — это ответ зависимости, а не её отказ: статистику
		// недоступности такой исход не двигает.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, clients.ErrNotFound)
		},
		OnStateChange: b.handleStateChange,
	})
}

// Execute проводит вызов через автомат. В open вызов отвергается сразу,
// не достигая зависимости.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	b.mu.RLock()
	cb := b.cb
	b.mu.RUnlock()
	return cb.Execute(fn)
}

// State возвращает текущее состояние автомата.
func (b *Breaker) State() gobreaker.State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cb.State()
}

// Counts возвращает текущую статистику вызовов.
func (b *Breaker) Counts() gobreaker.Counts {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cb.Counts()
}

// Reset возвращает breaker в closed, пересоздавая автомат с той же конфигурацией.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cb = b.newCircuitBreaker()
	b.logger.Info("circuit breaker reset to closed")
}

func (b *Breaker) handleStateChange(name string, from, to gobreaker.State) {
	entry := b.logger.WithFields(log.Fields{
		"from": from.String(),
		"to":   to.String(),
	})
	switch to {
	case gobreaker.StateOpen:
		entry.Warn("circuit breaker opened, requests will fast-fail")
	case gobreaker.StateHalfOpen:
		entry.Info("circuit breaker half-open, probing dependency")
	case gobreaker.StateClosed:
		entry.Info("circuit breaker closed, dependency healthy")
	}

	if b.onChange != nil {
		b.onChange(b.name, from, to)
	}
}

// IsBreakerOpen проверяет, был ли вызов отвергнут разомкнутым breaker'ом
// (включая насыщение пробных вызовов в half-open).
func IsBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// StateGaugeValue переводит состояние автомата в значение для gauge-метрики.
func StateGaugeValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return -1
}
