package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"ledger/internal/cache"
	"ledger/internal/config"
	"ledger/internal/db"
	"ledger/internal/events"
	"ledger/internal/httpserver"
	"ledger/internal/logging"
	customerrepo "ledger/internal/repository/customer"
	productrepo "ledger/internal/repository/product"
	queuerepo "ledger/internal/repository/queue"
	customersvc "ledger/internal/service/customer"
	productsvc "ledger/internal/service/product"
	queuesvc "ledger/internal/service/queue"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("api")

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	var (
		customerRepo customerrepo.Repository = customerrepo.NewPostgres(dbpool, logger)
		productRepo  productrepo.Repository  = productrepo.NewPostgres(dbpool, logger)
		queueRepo                            = queuerepo.NewPostgres(dbpool, logger)
		queueOpts    []queuesvc.Option
		deps         = httpserver.Deps{LanguageTag: cfg.LanguageTag, CurrencySymbol: cfg.CurrencySymbol}
	)

	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			logger.Fatal("connect to redis", zap.Error(err))
		}
		defer rdb.Close()

		cachedCustomers := cache.NewCustomers(customerRepo, rdb, cfg.CacheTTL, logger)
		customerRepo = cachedCustomers
		productRepo = cache.NewProducts(productRepo, rdb, cfg.CacheTTL, logger)
		queueOpts = append(queueOpts, queuesvc.WithInvalidator(cachedCustomers))
		deps.Idempotency = cache.NewIdempotency(rdb, 0)
		logger.Info("redis cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	}

	if len(cfg.KafkaBrokers) > 0 {
		writer := events.NewWriter(cfg.KafkaBrokers)
		defer writer.Close()
		queueOpts = append(queueOpts, queuesvc.WithPublisher(events.NewKafkaPublisher(logger, writer, cfg.KafkaTopic)))
		logger.Info("kafka events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	queueOpts = append(queueOpts, queuesvc.WithProducts(productRepo))
	deps.CustomerSvc = customersvc.New(customerRepo)
	deps.ProductSvc = productsvc.New(productRepo)
	deps.QueueSvc = queuesvc.New(queueRepo, customerRepo, logger, queueOpts...)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, deps)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
