package resilience

import (
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited — вызов отвергнут лимитером: бюджет окна исчерпан.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiterConfig задаёт бюджет вызовов к одной зависимости.
type RateLimiterConfig struct {
	// Limit — максимум вызовов за период. Значение <= 0 отключает лимитер.
	Limit int
	// Period — длительность окна.
	Period time.Duration
}

// DefaultRateLimiterConfig возвращает бюджет по умолчанию.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Limit:  50,
		Period: time.Second,
	}
}

// RateLimiter ограничивает частоту вызовов к зависимости. Отказ мгновенный,
// без очереди и ожидания. Безопасен при конкурентном использовании.
type RateLimiter struct {
	lim *rate.Limiter
}

// NewRateLimiter создаёт лимитер на Limit вызовов за Period.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Limit <= 0 {
		return &RateLimiter{}
	}
	period := cfg.Period
	if period <= 0 {
		period = time.Second
	}
	perSecond := float64(cfg.Limit) / period.Seconds()
	return &RateLimiter{
		lim: rate.NewLimiter(rate.Limit(perSecond), cfg.Limit),
	}
}

// Allow сообщает, разрешён ли вызов прямо сейчас.
func (l *RateLimiter) Allow() bool {
	if l == nil || l.lim == nil {
		return true
	}
	return l.lim.Allow()
}
