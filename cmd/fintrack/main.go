package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	"fintrack/internal/core"
	apphttp "fintrack/internal/http"
	"fintrack/internal/live"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	logger.Info("Initialized backend", "backend", cfg.DataBackend, applog.FieldOperation, applog.OpStartup)

	// Change events are optional; without a broker the API still serves.
	var (
		publisher  services.Publisher
		amqpClient *amqp.Client
	)
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, change events disabled", "error", err)
		} else {
			publisher = amqpClient
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange)
		}
	}

	ledgerSvc := services.NewLedgerService(result.Backend, publisher)
	dashboard := services.NewDashboardService(result.Backend, cfg.SummaryCacheTTL)
	ledgerSvc.OnChange(dashboard.Invalidate)

	cacheManager := cache.NewManager()
	cacheManager.Register(dashboard.Cache())
	cacheManager.StartCleanup(time.Minute)

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := live.NewHub(dashboard.Summary)
	go hub.Run(hubCtx)

	// Registered after Invalidate so the broadcast sees fresh data.
	ledgerSvc.OnChange(func(ctx context.Context, change core.LedgerChange) {
		sum, err := dashboard.Summary(ctx)
		if err != nil {
			applog.FromContext(ctx).WithComponent(applog.ComponentLive).Warn("Skipping live update", "error", err)
			return
		}
		hub.Broadcast(sum)
	})

	srv := apphttp.NewServer(":"+cfg.Port, ledgerSvc, dashboard, apphttp.Options{
		Logger: logger,
		Live:   http.HandlerFunc(hub.ServeWS),
		Ready:  result.Ping,
		Gauges: map[string]func() int{
			"websocket_clients":     hub.ClientCount,
			"summary_cache_entries": dashboard.Cache().Size,
		},
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		stopHub()
		cacheManager.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", "error", err)
			}
		}
		if err := result.Close(shutdownCtx); err != nil {
			logger.Error("Backend close error", "error", err)
		}
	})

	logger.Info("Starting fintrack server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
