package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/application/services"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/config"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/archive"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/hyperswitch"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/lock"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/metrics"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest/openapi"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/tenant"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/worker"
	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/plugin/kprom"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := kingpin.Flag("config", "Path to the application config file").Short('c').Default("config.yml").String()
	kingpin.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting hyperswitch adapter",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	checks := map[string]handlers.HealthCheck{
		"postgres": db.Ping,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.NewPrometheus(registry)

	var locker application.KeyLocker = lock.NewMemoryLocker()
	if cfg.Redis.Enabled {
		redisClient, err := lock.Connect(ctx, cfg.Redis.URI, cfg.Redis.Password)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		locker = lock.NewRedisLocker(redisClient, logger)
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	} else if cfg.Primary.IsProd() {
		logger.Warn("redis disabled, duplicate requests are only serialized within this process")
	}

	var responseArchive application.ResponseArchive = archive.Noop{}
	if cfg.Archive.Enabled {
		mongoClient, err := archive.Connect(ctx, cfg.Archive.URI)
		if err != nil {
			logger.Error("failed to connect to mongo", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = mongoClient.Disconnect(context.Background())
		}()

		responseArchive = archive.NewMongoArchive(mongoClient, cfg.Archive.Database, cfg.Archive.Collection)
		checks["mongo"] = func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		}
	}

	tenants := tenant.NewStore(tenant.Credentials{
		APIKey:      cfg.Tenants.DefaultAPIKey,
		ProfileID:   cfg.Tenants.DefaultProfileID,
		Environment: cfg.Tenants.DefaultEnvironment,
	})

	logger.Info("tenant store ready", "configured_tenants", len(tenants.Tenants()))

	gatewayClient := hyperswitch.NewRetryClient(hyperswitch.NewHTTPClient(cfg.Gateway), cfg.Retry)
	gateway := hyperswitch.NewAdapter(gatewayClient, tenants, appMetrics, logger)

	paymentMethodRepo := postgres.NewPaymentMethodRepository(db)
	ledger := postgres.NewAttemptRepository(db)

	executor := services.NewExecutor(ledger, locker, responseArchive, appMetrics, cfg.Lock, logger)

	h := handlers.NewHandlers(handlers.Services{
		Authorize:     services.NewAuthorizeService(executor, gateway, paymentMethodRepo),
		Capture:       services.NewCaptureService(executor, gateway),
		Void:          services.NewVoidService(executor, gateway),
		Refund:        services.NewRefundService(executor, gateway),
		Query:         services.NewQueryService(ledger, gateway, appMetrics, logger),
		PaymentMethod: services.NewPaymentMethodService(paymentMethodRepo, logger),
	}, tenants, checks, logger)

	doc, err := openapi.Load(ctx)
	if err != nil {
		logger.Error("invalid openapi document", "error", err)
		os.Exit(1)
	}
	validateRequests, err := openapi.RequestValidator(doc, logger)
	if err != nil {
		logger.Error("failed to build request validator", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	h.Register(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.Handle("GET /docs/openapi.json", openapi.DocHandler(logger))

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if cfg.Kafka.Enabled {
		kafkaMetrics := kprom.NewMetrics("hyperswitch_kafka")
		mux.Handle("GET /metrics/kafka", kafkaMetrics.Handler())

		listener, err := worker.NewConfigListener(worker.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			Name:           cfg.Kafka.ConsumerName,
			Topic:          cfg.Kafka.Topic,
			RecordsPerPoll: cfg.Kafka.RecordsPerPoll,
		}, worker.NewTenantConfigProcessor(tenants, logger), kafkaMetrics, logger)
		if err != nil {
			logger.Error("cannot create tenant config listener", "error", err)
			os.Exit(1)
		}

		go func() {
			if err := listener.Poll(workerCtx); err != nil {
				logger.Error("tenant config listener stopped", "error", err)
			}
		}()
	}

	handler := middleware.Chain(mux,
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.Timeout(cfg.Server.RequestTimeout),
		validateRequests,
	)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
