package resilience

import (
	"context"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
)

// RetryConfig — конфигурация повторных попыток одного удалённого вызова.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// doWithRetry выполняет fn до MaxAttempts раз. Неповторяемые ошибки (по
// предикату retryable) всплывают сразу; при исчерпании попыток всплывает
// последняя наблюдавшаяся ошибка. Задержка между попытками экспоненциальная
// с джиттером и уважает ctx.
func doWithRetry(
	ctx context.Context,
	logger *log.Entry,
	operation string,
	cfg RetryConfig,
	retryable func(error) bool,
	onRetry func(),
	fn func() (any, error),
) (any, error) {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := fn()
		if err == nil {
			if attempt > 1 {
				logger.WithFields(log.Fields{
					"operation": operation,
					"attempt":   attempt,
				}).Info("call succeeded after retry")
			}
			return res, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, err
		}
		if attempt == attempts {
			break
		}

		logger.WithFields(log.Fields{
			"operation": operation,
			"attempt":   attempt,
			"delay":     delay,
			"error":     err,
		}).Warn("call failed, retrying")
		if onRetry != nil {
			onRetry()
		}

		if err := sleepWithJitter(ctx, delay); err != nil {
			return nil, err
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	logger.WithFields(log.Fields{
		"operation":    operation,
		"max_attempts": attempts,
		"error":        lastErr,
	}).Error("call failed after all retry attempts")
	return nil, lastErr
}

// sleepWithJitter ждёт случайную долю delay (equal jitter), прерываясь по ctx.
func sleepWithJitter(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	half := delay / 2
	wait := half + time.Duration(rand.Int63n(int64(half)+1))

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
