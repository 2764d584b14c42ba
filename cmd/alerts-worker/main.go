// The alerts worker drains the advisory queue and forwards each advisory to
// the configured sink: the process log, or a Google Sheets audit trail.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"kharcha/internal/alerts"
	"kharcha/internal/config"
	"kharcha/internal/log"
	"kharcha/internal/sheets"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     log.DefaultConfig().Level,
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alerts worker")
		os.Exit(1)
	}

	client, err := alerts.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("failed to connect to AMQP", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler, err := buildSink(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize alert sink", log.FieldError, err, "sink", cfg.AlertSink)
		os.Exit(1)
	}

	go func() {
		if err := client.Consume(ctx, handler); err != nil && err != context.Canceled {
			logger.Error("advisory consumption failed", log.FieldError, err)
			cancel()
		}
	}()

	logger.Info("alerts worker started",
		log.FieldOperation, log.OpStartup,
		"sink", cfg.AlertSink,
		"queue", cfg.AMQPQueue)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("shutdown signal received",
			log.FieldOperation, log.OpShutdown,
			"signal", sig.String())
	case <-ctx.Done():
	}
	cancel()
	logger.Info("alerts worker stopped")
}

func buildSink(ctx context.Context, cfg *config.Config, logger *log.Logger) (func(*alerts.AdvisoryMessage) error, error) {
	switch cfg.AlertSink {
	case "sheets":
		appender, err := sheets.NewAppender(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, sheets.Credentials{
			ClientFile: cfg.GoogleOAuthClientFile,
			TokenFile:  cfg.GoogleOAuthTokenFile,
			ClientJSON: cfg.GoogleOAuthClientJSON,
			TokenJSON:  cfg.GoogleOAuthTokenJSON,
		}, logger)
		if err != nil {
			return nil, err
		}
		return func(msg *alerts.AdvisoryMessage) error {
			return appender.Append(ctx, msg)
		}, nil
	default:
		return func(msg *alerts.AdvisoryMessage) error {
			logger.Info("advisory received",
				log.FieldSeverity, string(msg.Severity),
				log.FieldCategory, string(msg.Category),
				"message", msg.Message)
			return nil
		}, nil
	}
}
