package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"invoicesense/internal/amqp"
	"invoicesense/internal/core"
	"invoicesense/internal/storage"
)

// InvoiceService orchestrates invoice writes across SQLite and AMQP.
type InvoiceService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewInvoiceService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *InvoiceService {
	return &InvoiceService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// SaveInvoices saves invoices locally and publishes a sync message per row.
func (s *InvoiceService) SaveInvoices(ctx context.Context, invoices []core.Invoice) ([]string, error) {
	// Save to SQLite first (fast, reliable)
	refs, err := s.storage.AppendInvoices(ctx, invoices)
	if err != nil {
		return nil, fmt.Errorf("save invoices: %w", err)
	}

	for _, ref := range refs {
		id, err := strconv.ParseInt(ref, 10, 64)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to parse invoice ID", "ref", ref, "error", err)
			continue
		}

		// Publish async sync message (non-blocking)
		if err := s.publishSyncMessage(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sync message",
				"id", id, "error", err)
			// Don't fail the request - invoice is saved locally
		}
	}

	return refs, nil
}

func (s *InvoiceService) publishSyncMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	return s.amqpClient.PublishInvoiceSync(ctx, id)
}

// Close closes both storage and AMQP connections.
func (s *InvoiceService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close invoice service: %v", errs)
	}

	return nil
}
