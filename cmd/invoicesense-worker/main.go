package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoicesense/internal/amqp"
	"invoicesense/internal/cli"
	gds "invoicesense/internal/datastore/google"
	"invoicesense/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting invoicesense-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// SQLite holds the locally saved invoices waiting to be mirrored
	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	// Google Sheets client for mirroring (optional)
	var sheetsClient *gds.Client
	if cfg.GoogleSpreadsheetID != "" {
		var err error
		sheetsClient, err = gds.New(context.Background(), gds.Config{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			InvoicesSheet: cfg.InvoicesSheetName,
			ClientsSheet:  cfg.ClientsSheetName,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var syncWorker *worker.SyncWorker
	if sheetsClient != nil {
		syncWorker = worker.NewSyncWorker(sqliteRepo, sheetsClient, cfg.SyncBatchSize)

		// On startup, process any pending invoices that might have been missed
		logger.Info("Performing startup sync check...")
		if err := syncWorker.StartupSyncCheck(ctx); err != nil {
			logger.Error("Failed startup sync check", "error", err)
			// Don't exit - continue with normal operation
		}
	} else {
		logger.Info("Skipping Google Sheets sync operations - no client available")
	}

	// AMQP consumption drives the fast path; the periodic sweep is backup
	if syncWorker != nil && cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			handler := func(msg *amqp.InvoiceSyncMessage) error {
				return syncWorker.HandleSyncMessage(ctx, msg)
			}
			if err := amqpClient.ConsumeInvoiceSync(ctx, handler); err != nil {
				if err != context.Canceled {
					logger.Error("Message consumption failed", "error", err)
				}
				cancel()
			}
		}()
	} else {
		logger.Info("Skipping AMQP message consumption")
	}

	if syncWorker != nil {
		go syncWorker.RunPeriodicSync(ctx, cfg.SyncInterval)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give in-flight operations a moment to finish
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
