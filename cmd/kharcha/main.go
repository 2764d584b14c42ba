package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kharcha/internal/alerts"
	"kharcha/internal/api"
	"kharcha/internal/config"
	apphttp "kharcha/internal/http"
	"kharcha/internal/log"
	"kharcha/internal/session"
	"kharcha/internal/viewmodel"
)

func main() {
	// Load .env for local development, ignore when absent.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store, err := session.NewSQLiteStore(cfg.SessionDBPath, cfg.SessionPassphrase)
	if err != nil {
		logger.Error("failed to open session store", log.FieldError, err, "path", cfg.SessionDBPath)
		os.Exit(1)
	}
	defer store.Close()

	client, err := api.New(cfg.BackendBaseURL, cfg.BackendTimeout, store, logger)
	if err != nil {
		logger.Error("failed to create backend client", log.FieldError, err)
		os.Exit(1)
	}

	opts := []viewmodel.Option{}
	var alertsClient *alerts.Client
	if cfg.AMQPURL != "" {
		alertsClient, err = alerts.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			// Advisories are best effort; the dashboard runs without them.
			logger.Warn("advisory publishing disabled", log.FieldError, err)
		} else {
			defer alertsClient.Close()
			opts = append(opts, viewmodel.WithAdvisoryPublisher(alertsClient))
		}
	}

	model := viewmodel.NewModel(client, logger, opts...)

	srv, err := apphttp.NewServer(":"+cfg.Port, model, client, store, viewmodel.SystemClock(), logger)
	if err != nil {
		logger.Error("failed to create server", log.FieldError, err)
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received",
			log.FieldOperation, log.OpShutdown,
			"signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("starting kharcha",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		"backend", cfg.BackendBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped gracefully")
}
