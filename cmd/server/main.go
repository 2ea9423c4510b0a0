package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/edcsys/edc-gateway/internal/config"
	"github.com/edcsys/edc-gateway/internal/eventbus"
	"github.com/edcsys/edc-gateway/internal/handler"
	"github.com/edcsys/edc-gateway/internal/processor"
	"github.com/edcsys/edc-gateway/internal/server"
	"github.com/edcsys/edc-gateway/internal/service"
	"github.com/edcsys/edc-gateway/internal/storage"
	"github.com/edcsys/edc-gateway/internal/transport"
	"github.com/edcsys/edc-gateway/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Logging.Level)
	defer log.Sync()

	ctx := context.Background()
	log.Info(ctx, "Starting EDC gateway")

	store := storage.NewMemoryStore()
	vault := storage.NewCardVault()
	log.Info(ctx, "Transaction store initialized")

	bus := eventbus.New(log, &eventbus.Config{
		ChannelBuffer: cfg.EventBus.ChannelBufferSize,
		MaxRetries:    cfg.EventBus.MaxRetries,
	})

	reportingConsumer := eventbus.NewReportingConsumer(log, cfg.Worker.PoolSize)
	if err := bus.Subscribe(eventbus.EventTypeLifecycle, reportingConsumer); err != nil {
		log.Fatal(ctx, "Failed to subscribe reporting consumer", "error", err)
	}

	if err := bus.Start(ctx); err != nil {
		log.Fatal(ctx, "Failed to start event bus", "error", err)
	}
	log.Info(ctx, "Event bus started", "worker_count", cfg.Worker.PoolSize)

	sender := transport.NewHTTPClient(transport.Config{
		Timeout:     cfg.Transport.Timeout,
		MaxAttempts: cfg.Transport.MaxAttempts,
	}, log)

	tsys := processor.NewTSYS(processor.TSYSConfig{
		APIURL: cfg.Processors.TSYS.APIURL,
		APIKey: cfg.Processors.TSYS.APIKey,
	}, sender, log)
	elavon := processor.NewElavon(processor.ElavonConfig{
		APIURL:   cfg.Processors.Elavon.APIURL,
		Username: cfg.Processors.Elavon.Username,
		Password: cfg.Processors.Elavon.Password,
	}, sender, log)

	edcService := service.NewEDCService(store, vault, bus, log, tsys, elavon)
	log.Info(ctx, "Services initialized", "processors", []string{tsys.Name(), elavon.Name()})

	transactionHandler := handler.NewTransactionHandler(edcService, log)
	healthHandler := handler.NewHealthHandler()

	srv := server.New(cfg, log, transactionHandler, healthHandler)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal(ctx, "Failed to start HTTP server", "error", err)
		}
	}()

	log.Info(ctx, "EDC gateway started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "HTTP server shutdown error", "error", err)
	}

	if err := bus.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "Event bus shutdown error", "error", err)
	}

	log.Info(ctx, "EDC gateway stopped gracefully")
}
