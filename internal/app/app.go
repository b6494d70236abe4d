package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	healthcheck "github.com/jcmicro/order-service/internal/health"
	"github.com/jcmicro/order-service/internal/resilience"
	"github.com/jcmicro/order-service/internal/service/order"
	transporthttp "github.com/jcmicro/order-service/internal/transport/http"
	"github.com/jcmicro/order-service/internal/version"
)

// Run собирает все компоненты и держит сервис запущенным до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	repo, store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				logger.WithError(closeErr).Warn("failed to close postgres store")
			}
		}()
	}

	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		return err
	}

	// Kafka опционален: без брокеров события просто не публикуются.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)

	var orderSvc *order.Service
	if kafkaProducer != nil {
		orderSvc = order.NewServiceWithKafka(repo, deps.Users, deps.Products, cfg.StockSyncPolicy, kafkaProducer, logger.WithField("layer", "service"))
	} else {
		orderSvc = order.NewService(repo, deps.Users, deps.Products, cfg.StockSyncPolicy, logger.WithField("layer", "service"))
	}

	handler := transporthttp.NewHandler(orderSvc, logger.WithField("layer", "http"))
	router := transporthttp.NewRouter(handler, logger.WithField("layer", "http"), cfg.RequestTimeout)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("user-service-breaker", &breakerChecker{name: "user-service-breaker", breaker: deps.UserBreaker})
	healthHandler.RegisterChecker("product-service-breaker", &breakerChecker{name: "product-service-breaker", breaker: deps.ProductBreaker})
	if store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(pingCtx)
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP сервер заказов слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		closeKafka(kafkaProducer, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		closeKafka(kafkaProducer, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// breakerChecker сообщает состояние circuit breaker как health-статус.
// Открытый breaker — деградация, а не отказ: сервис продолжает отвечать.
type breakerChecker struct {
	name    string
	breaker *resilience.Breaker
}

func (c *breakerChecker) Check() healthcheck.Check {
	state := c.breaker.State()
	check := healthcheck.Check{Name: c.name, Status: healthcheck.StatusHealthy}
	if state == gobreaker.StateOpen {
		check.Status = healthcheck.StatusDegraded
		check.Message = fmt.Sprintf("circuit breaker is %s", state)
	}
	return check
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
