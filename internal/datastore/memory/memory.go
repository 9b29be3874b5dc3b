// Package memory is the in-process fallback store. It backs local
// development and every deployment where no spreadsheet is configured,
// seeded with a small sample dataset so the dashboard renders something.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"invoicesense/internal/core"
	"invoicesense/internal/datastore"
)

type Store struct {
	mu       sync.Mutex
	invoices []core.Invoice
	clients  []core.Client
	nextID   int
}

// New returns an empty store.
func New() *Store {
	return &Store{nextID: 1}
}

// NewWithSampleData returns a store seeded with the demo dataset.
func NewWithSampleData() *Store {
	s := New()
	s.invoices = append(s.invoices, sampleInvoices()...)
	s.clients = append(s.clients, sampleClients()...)
	s.nextID = len(s.invoices) + len(s.clients) + 1
	return s
}

// ListInvoices implements datastore.InvoiceSource. The returned slice is a
// copy; callers may not observe later appends and cannot corrupt the store.
func (s *Store) ListInvoices(_ context.Context) ([]core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out, nil
}

// AppendInvoices implements datastore.InvoiceWriter.
func (s *Store) AppendInvoices(_ context.Context, invoices []core.Invoice) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		inv = inv.Normalize()
		if inv.ID == "" {
			inv.ID = "mem-" + strconv.Itoa(s.nextID)
			s.nextID++
		}
		s.invoices = append(s.invoices, inv)
		refs = append(refs, fmt.Sprintf("mem:%d", len(s.invoices)))
	}
	return refs, nil
}

// ListClients implements datastore.ClientSource.
func (s *Store) ListClients(_ context.Context) ([]core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Client, len(s.clients))
	copy(out, s.clients)
	return out, nil
}

// CreateClient implements datastore.ClientWriter.
func (s *Store) CreateClient(_ context.Context, c core.Client) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = "mem-" + strconv.Itoa(s.nextID)
		s.nextID++
	}
	if c.Status == "" {
		c.Status = core.StatusActive
	}
	s.clients = append(s.clients, c)
	return c.ID, nil
}

// UpdateClient implements datastore.ClientWriter.
func (s *Store) UpdateClient(_ context.Context, c core.Client) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].ID == c.ID {
			s.clients[i] = c
			return nil
		}
	}
	return fmt.Errorf("client %s: %w", c.ID, datastore.ErrNotFound)
}

// DeleteClient implements datastore.ClientWriter.
func (s *Store) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].ID == id {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("client %s: %w", id, datastore.ErrNotFound)
}
