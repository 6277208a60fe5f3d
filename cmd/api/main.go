package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foodsupplychain/procurement/api/controllers"
	"github.com/foodsupplychain/procurement/api/routes"
	"github.com/foodsupplychain/procurement/internal/cart"
	"github.com/foodsupplychain/procurement/internal/catalog"
	"github.com/foodsupplychain/procurement/internal/orders"
	"github.com/foodsupplychain/procurement/pkg/backend"
	"github.com/foodsupplychain/procurement/pkg/config"
	"github.com/foodsupplychain/procurement/pkg/logger"
	"github.com/foodsupplychain/procurement/pkg/metrics"
	"github.com/foodsupplychain/procurement/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "procurement-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "procurement-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	procMetrics := metrics.NewProcurementMetrics(registry)

	var (
		redisPinger  controllers.Pinger
		cartStore    cart.Store    = cart.NewMemoryStore(cfg.Cart.TTL)
		catalogCache catalog.Cache = catalog.NewMemoryCache()
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisPinger = redisClient
		cartStore = cart.NewRedisStore(redisClient, cfg.Cart.TTL)
		catalogCache = catalog.NewRedisCache(redisClient)
	} else {
		logg.Warn(context.Background(), "redis not configured, carts are kept in process memory")
	}

	client, err := backend.NewClient(cfg.Backend.BaseURL, backend.WithTimeout(cfg.Backend.Timeout), backend.WithLogger(logg))
	if err != nil {
		logg.Error(context.Background(), "failed to create marketplace client", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Source:   catalog.NewBackendSource(client, logg),
		Cache:    catalogCache,
		CacheTTL: cfg.Catalog.CacheTTL,
		Metrics:  procMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Store:    cartStore,
		Products: catalogService,
		MaxLines: cfg.Cart.MaxLines,
		Metrics:  procMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	placementService, err := orders.NewPlacementService(orders.PlacementParams{
		Carts:         cartService,
		Submitter:     orders.NewBackendSubmitter(client, logg),
		MaxConcurrent: cfg.Orders.MaxConcurrent,
		Metrics:       procMetrics,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create placement service", err)
		os.Exit(1)
	}

	historyService, err := orders.NewHistoryService(client)
	if err != nil {
		logg.Error(context.Background(), "failed to create history service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Backend.BaseURL,
		"redis":   cfg.Redis.Enabled(),
	})
	logg.Info(ctx, "starting api server")

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, redisPinger, metricsHandler, catalogService, cartService, placementService, historyService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "api server shutdown failed", err)
	}
}
