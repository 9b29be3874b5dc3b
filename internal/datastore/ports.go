// Package datastore defines the ports for the hosted invoice store.
// Business logic never reads ambient state to find a store; an
// implementation is chosen once at startup and passed in.
package datastore

import (
	"context"
	"errors"

	"invoicesense/internal/core"
)

// ErrNotFound reports that no stored record matches the given ID.
// Implementations wrap it so callers can test with errors.Is.
var ErrNotFound = errors.New("not found")

type (
	// InvoiceSource fetches the normalized invoice snapshot the analytics
	// engine operates on.
	InvoiceSource interface {
		ListInvoices(ctx context.Context) ([]core.Invoice, error)
	}

	// InvoiceWriter appends extracted line items, returning one row
	// reference per stored record.
	InvoiceWriter interface {
		AppendInvoices(ctx context.Context, invoices []core.Invoice) ([]string, error)
	}

	// ClientSource lists the client roster.
	ClientSource interface {
		ListClients(ctx context.Context) ([]core.Client, error)
	}

	// ClientWriter mutates the client roster.
	ClientWriter interface {
		CreateClient(ctx context.Context, c core.Client) (string, error)
		UpdateClient(ctx context.Context, c core.Client) error
		DeleteClient(ctx context.Context, id string) error
	}
)
