package adapters

import (
	"context"

	"invoicesense/internal/core"
	"invoicesense/internal/services"
	"invoicesense/internal/storage"
)

// SQLiteAdapter adapts SQLiteRepository and InvoiceService to the datastore
// ports so the HTTP handlers work unchanged on the SQLite + AMQP backend.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.InvoiceService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.InvoiceService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// AppendInvoices implements datastore.InvoiceWriter. Writes route through
// the service so each saved row gets a sync message.
func (a *SQLiteAdapter) AppendInvoices(ctx context.Context, invoices []core.Invoice) ([]string, error) {
	return a.service.SaveInvoices(ctx, invoices)
}

// ListInvoices implements datastore.InvoiceSource.
func (a *SQLiteAdapter) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	return a.storage.ListInvoices(ctx)
}

// ListClients implements datastore.ClientSource.
func (a *SQLiteAdapter) ListClients(ctx context.Context) ([]core.Client, error) {
	return a.storage.ListClients(ctx)
}

// CreateClient implements datastore.ClientWriter.
func (a *SQLiteAdapter) CreateClient(ctx context.Context, c core.Client) (string, error) {
	return a.storage.CreateClient(ctx, c)
}

// UpdateClient implements datastore.ClientWriter.
func (a *SQLiteAdapter) UpdateClient(ctx context.Context, c core.Client) error {
	return a.storage.UpdateClient(ctx, c)
}

// DeleteClient implements datastore.ClientWriter.
func (a *SQLiteAdapter) DeleteClient(ctx context.Context, id string) error {
	return a.storage.DeleteClient(ctx, id)
}
