package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jcmicro/order-service/internal/resilience"
	"github.com/jcmicro/order-service/internal/service/order"
)

// DependencyConfig — настройки одной удалённой зависимости и её защитного слоя.
type DependencyConfig struct {
	BaseURL   string
	Breaker   resilience.BreakerConfig
	Retry     resilience.RetryConfig
	RateLimit resilience.RateLimiterConfig
}

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	UserService    DependencyConfig
	ProductService DependencyConfig

	// RequestTimeout ограничивает весь цикл обработки одного запроса.
	RequestTimeout time.Duration

	// Storage: "memory" или "postgres".
	Storage     string
	PostgresDSN string

	// KafkaBrokers пустой — события не публикуются.
	KafkaBrokers []string

	StockSyncPolicy order.StockSyncPolicy
}

// DefaultConfig возвращает конфигурацию по умолчанию для локального запуска.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		UserService: DependencyConfig{
			BaseURL:   "http://localhost:8081",
			Breaker:   resilience.DefaultBreakerConfig(),
			Retry:     resilience.DefaultRetryConfig(),
			RateLimit: resilience.DefaultRateLimiterConfig(),
		},
		ProductService: DependencyConfig{
			BaseURL:   "http://localhost:8082",
			Breaker:   resilience.DefaultBreakerConfig(),
			Retry:     resilience.DefaultRetryConfig(),
			RateLimit: resilience.DefaultRateLimiterConfig(),
		},
		RequestTimeout:  15 * time.Second,
		Storage:         "memory",
		StockSyncPolicy: order.StockSyncBestEffort,
	}
}

// FromEnv строит конфигурацию из переменных окружения поверх значений по умолчанию.
func FromEnv() Config {
	cfg := DefaultConfig()

	cfg.HTTPAddr = envString("ORDERS_HTTP_ADDR", cfg.HTTPAddr)
	cfg.MetricsAddr = envString("ORDERS_METRICS_ADDR", cfg.MetricsAddr)
	cfg.RequestTimeout = envDuration("ORDERS_REQUEST_TIMEOUT", cfg.RequestTimeout)

	cfg.UserService = dependencyFromEnv("USER_SERVICE", cfg.UserService)
	cfg.ProductService = dependencyFromEnv("PRODUCT_SERVICE", cfg.ProductService)

	cfg.Storage = envString("ORDERS_STORAGE", cfg.Storage)
	cfg.PostgresDSN = envString("ORDERS_POSTGRES_DSN", cfg.PostgresDSN)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if policy := order.StockSyncPolicy(os.Getenv("ORDERS_STOCK_SYNC_POLICY")); order.ValidPolicy(policy) {
		cfg.StockSyncPolicy = policy
	}

	return cfg
}

// dependencyFromEnv читает настройки защитного слоя одной зависимости.
// prefix — например, "USER_SERVICE": USER_SERVICE_URL, USER_SERVICE_CB_FAILURE_RATIO и т.д.
func dependencyFromEnv(prefix string, cfg DependencyConfig) DependencyConfig {
	cfg.BaseURL = envString(prefix+"_URL", cfg.BaseURL)

	cfg.Breaker.FailureRatio = envFloat(prefix+"_CB_FAILURE_RATIO", cfg.Breaker.FailureRatio)
	cfg.Breaker.MinRequests = uint32(envInt(prefix+"_CB_MIN_REQUESTS", int(cfg.Breaker.MinRequests)))
	cfg.Breaker.Interval = envDuration(prefix+"_CB_INTERVAL", cfg.Breaker.Interval)
	cfg.Breaker.OpenTimeout = envDuration(prefix+"_CB_OPEN_TIMEOUT", cfg.Breaker.OpenTimeout)
	cfg.Breaker.ProbeCalls = uint32(envInt(prefix+"_CB_PROBE_CALLS", int(cfg.Breaker.ProbeCalls)))

	cfg.Retry.MaxAttempts = envInt(prefix+"_RETRY_MAX_ATTEMPTS", cfg.Retry.MaxAttempts)
	cfg.Retry.InitialDelay = envDuration(prefix+"_RETRY_INITIAL_DELAY", cfg.Retry.InitialDelay)
	cfg.Retry.MaxDelay = envDuration(prefix+"_RETRY_MAX_DELAY", cfg.Retry.MaxDelay)
	cfg.Retry.BackoffFactor = envFloat(prefix+"_RETRY_BACKOFF_FACTOR", cfg.Retry.BackoffFactor)

	cfg.RateLimit.Limit = envInt(prefix+"_RL_LIMIT", cfg.RateLimit.Limit)
	cfg.RateLimit.Period = envDuration(prefix+"_RL_PERIOD", cfg.RateLimit.Period)

	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
