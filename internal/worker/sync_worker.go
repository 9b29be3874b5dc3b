// Package worker mirrors locally saved invoices from SQLite to the hosted
// spreadsheet. AMQP messages drive the fast path; a startup sweep and a
// periodic ticker catch anything the queue missed.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"invoicesense/internal/amqp"
	"invoicesense/internal/core"
	"invoicesense/internal/datastore"
	"invoicesense/internal/storage"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheets    datastore.InvoiceWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheets datastore.InvoiceWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single invoice sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.InvoiceSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	invoice, err := w.storage.GetInvoice(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get invoice from storage: %w", err)
	}

	if err := w.syncInvoices(ctx, []core.Invoice{invoice}, []int64{msg.ID}); err != nil {
		return fmt.Errorf("sync invoice to sheets: %w", err)
	}

	return nil
}

// ProcessPendingInvoices mirrors unsynced rows. This is the backup path in
// case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingInvoices(ctx context.Context) error {
	pending, ids, err := w.storage.ListUnsyncedInvoices(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending invoices: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending invoices", "count", len(pending))

	return w.syncInvoices(ctx, pending, ids)
}

// StartupSyncCheck sweeps a larger batch of unsynced rows at worker startup
// to recover from missed messages or downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, ids, err := w.storage.ListUnsyncedInvoices(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending invoices for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending invoices found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending invoices on startup, processing...",
		"count", len(pending))

	if err := w.syncInvoices(ctx, pending, ids); err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}

	slog.InfoContext(ctx, "Startup sync completed", "synced", len(pending))
	return nil
}

// RunPeriodicSync loops the backup sweep until the context is cancelled.
func (w *SyncWorker) RunPeriodicSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic sync", "reason", ctx.Err())
			return
		case <-ticker.C:
			if err := w.ProcessPendingInvoices(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) syncInvoices(ctx context.Context, invoices []core.Invoice, ids []int64) error {
	refs, err := w.sheets.AppendInvoices(ctx, invoices)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, ids); err != nil {
		// The rows reached the sheet; failing to record it here only risks
		// a duplicate append on the next sweep.
		slog.ErrorContext(ctx, "Failed to mark invoices as synced", "ids", ids, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced invoices",
		"count", len(invoices),
		"sheet_refs", refs)

	return nil
}
