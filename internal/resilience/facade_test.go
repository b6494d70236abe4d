package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jcmicro/order-service/internal/clients"
	"github.com/jcmicro/order-service/internal/domain"
)

func newTestFacade(t *testing.T, notFound error) *Facade {
	t.Helper()
	breaker := NewBreaker("dep", BreakerConfig{
		FailureRatio: 0.5,
		MinRequests:  100, // breaker в этих тестах не должен размыкаться
		Interval:     time.Minute,
		OpenTimeout:  time.Minute,
		ProbeCalls:   1,
	}, testLogger(), nil)
	return NewFacade("dep", NewRateLimiter(RateLimiterConfig{}), breaker, fastRetry(3), notFound, testLogger(), nil)
}

func TestFacadeSuccessPassthrough(t *testing.T) {
	f := newTestFacade(t, domain.ErrUserNotFound)

	res, err := f.Execute(context.Background(), "get_user", func(ctx context.Context) (any, error) {
		return domain.UserSnapshot{ID: "42"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snapshot, ok := res.(domain.UserSnapshot)
	if !ok || snapshot.ID != "42" {
		t.Errorf("res = %v, want snapshot 42", res)
	}
}

func TestFacadeNotFoundMapsToDomainError(t *testing.T) {
	f := newTestFacade(t, domain.ErrUserNotFound)

	calls := 0
	_, err := f.Execute(context.Background(), "get_user", func(ctx context.Context) (any, error) {
		calls++
		return nil, fmt.Errorf("GET /users/42: %w", clients.ErrNotFound)
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, not-found must not be retried", calls)
	}
	if domain.IsDependencyUnavailable(err) {
		t.Error("not-found classified as unavailability")
	}
}

func TestFacadeConnectionFailureRetriedThenClassified(t *testing.T) {
	f := newTestFacade(t, domain.ErrProductNotFound)

	calls := 0
	_, err := f.Execute(context.Background(), "get_product", func(ctx context.Context) (any, error) {
		calls++
		return nil, fmt.Errorf("GET /products/7: %w", clients.ErrConnection)
	})
	if calls != 3 {
		t.Errorf("calls = %d, want all 3 attempts", calls)
	}

	var ue *domain.DependencyUnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want DependencyUnavailableError", err)
	}
	if ue.Reason != domain.ReasonConnectFail {
		t.Errorf("reason = %q, want %q", ue.Reason, domain.ReasonConnectFail)
	}
	if ue.Dependency != "dep" {
		t.Errorf("dependency = %q, want dep", ue.Dependency)
	}
}

func TestFacadeRateLimitedFailsFast(t *testing.T) {
	breaker := NewBreaker("dep", DefaultBreakerConfig(), testLogger(), nil)
	limiter := NewRateLimiter(RateLimiterConfig{Limit: 1, Period: time.Minute})
	f := NewFacade("dep", limiter, breaker, fastRetry(3), domain.ErrUserNotFound, testLogger(), nil)

	// Первый вызов съедает бюджет.
	if _, err := f.Execute(context.Background(), "get_user", func(ctx context.Context) (any, error) {
		return nil, nil
	}); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	calls := 0
	_, err := f.Execute(context.Background(), "get_user", func(ctx context.Context) (any, error) {
		calls++
		return nil, nil
	})
	var ue *domain.DependencyUnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want DependencyUnavailableError", err)
	}
	if ue.Reason != domain.ReasonRateLimited {
		t.Errorf("reason = %q, want %q", ue.Reason, domain.ReasonRateLimited)
	}
	if calls != 0 {
		t.Error("rejected call still reached dependency")
	}
}

func TestFacadeOpenBreakerNotRetried(t *testing.T) {
	breaker := NewBreaker("dep", testBreakerConfig(), testLogger(), nil)
	f := NewFacade("dep", nil, breaker, fastRetry(5), domain.ErrUserNotFound, testLogger(), nil)

	// Размыкаем breaker серией отказов.
	for i := 0; i < 3; i++ {
		_, _ = f.Execute(context.Background(), "get_user", func(ctx context.Context) (any, error) {
			return nil, clients.ErrConnection
		})
	}

	calls := 0
	_, err := f.Execute(context.Background(), "get_user", func(ctx context.Context) (any, error) {
		calls++
		return nil, nil
	})
	var ue *domain.DependencyUnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want DependencyUnavailableError", err)
	}
	if ue.Reason != domain.ReasonCircuitOpen {
		t.Errorf("reason = %q, want %q", ue.Reason, domain.ReasonCircuitOpen)
	}
	if calls != 0 {
		t.Error("call reached dependency while breaker open")
	}
}

func TestFacadeContextCanceled(t *testing.T) {
	f := newTestFacade(t, domain.ErrUserNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := f.Execute(ctx, "get_user", func(ctx context.Context) (any, error) {
		calls++
		return nil, nil
	})
	var ue *domain.DependencyUnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want DependencyUnavailableError", err)
	}
	if ue.Reason != domain.ReasonTimeout {
		t.Errorf("reason = %q, want %q", ue.Reason, domain.ReasonTimeout)
	}
	if calls != 0 {
		t.Error("call executed despite canceled context")
	}
}

func TestFacadeUnknownErrorIsUnexpected(t *testing.T) {
	f := newTestFacade(t, domain.ErrUserNotFound)

	_, err := f.Execute(context.Background(), "get_user", func(ctx context.Context) (any, error) {
		return nil, errors.New("weird payload")
	})
	var ue *domain.DependencyUnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want DependencyUnavailableError", err)
	}
	if ue.Reason != domain.ReasonUnexpected {
		t.Errorf("reason = %q, want %q", ue.Reason, domain.ReasonUnexpected)
	}
}
