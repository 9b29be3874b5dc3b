// Package storage is the local SQLite backend. It implements the same
// datastore ports as the spreadsheet adapter, plus the pending/synced
// bookkeeping the sync worker uses to mirror rows to the spreadsheet.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"invoicesense/internal/core"
	"invoicesense/internal/datastore"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const invoiceColumns = `id, client_id, company, description, quantity, unit_price,
	total, currency, invoice_number, status, processing_time, created_at`

// ListInvoices implements datastore.InvoiceSource.
func (r *SQLiteRepository) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []core.Invoice
	for rows.Next() {
		inv, _, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// AppendInvoices implements datastore.InvoiceWriter. New rows start
// unsynced; the worker mirrors them to the spreadsheet later.
func (r *SQLiteRepository) AppendInvoices(ctx context.Context, invoices []core.Invoice) ([]string, error) {
	refs := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		inv = inv.Normalize()
		created := inv.Created
		if created.IsZero() {
			created = time.Now()
		}
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO invoices (client_id, company, description, quantity, unit_price,
				total, currency, invoice_number, status, processing_time, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inv.ClientID, inv.Company, inv.Description, inv.Quantity, inv.UnitPrice,
			inv.Total, inv.Currency, inv.InvoiceNumber, inv.Status, inv.ProcessingTime, created)
		if err != nil {
			return refs, fmt.Errorf("insert invoice: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return refs, fmt.Errorf("last insert id: %w", err)
		}
		slog.InfoContext(ctx, "Invoice saved to SQLite",
			"id", id, "company", inv.Company, "total", inv.Total, "currency", inv.Currency)
		refs = append(refs, strconv.FormatInt(id, 10))
	}
	return refs, nil
}

// GetInvoice fetches a single invoice by numeric row ID.
func (r *SQLiteRepository) GetInvoice(ctx context.Context, id int64) (core.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
	inv, _, err := scanInvoice(row)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("get invoice %d: %w", id, err)
	}
	return inv, nil
}

// ListUnsyncedInvoices returns up to limit invoices not yet mirrored to the
// spreadsheet, oldest first.
func (r *SQLiteRepository) ListUnsyncedInvoices(ctx context.Context, limit int) ([]core.Invoice, []int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		 WHERE synced_at IS NULL ORDER BY created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list unsynced invoices: %w", err)
	}
	defer rows.Close()

	var out []core.Invoice
	var ids []int64
	for rows.Next() {
		inv, id, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
		ids = append(ids, id)
	}
	return out, ids, rows.Err()
}

// MarkSynced records that the given rows were mirrored to the spreadsheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []int64) error {
	now := time.Now()
	for _, id := range ids {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE invoices SET synced_at = ? WHERE id = ?`, now, id); err != nil {
			return fmt.Errorf("mark invoice %d synced: %w", id, err)
		}
	}
	return nil
}

// ListClients implements datastore.ClientSource. Soft-deleted rows are
// excluded.
func (r *SQLiteRepository) ListClients(ctx context.Context) ([]core.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, client_id, name, email, phone, address, website, industry, notes, status, join_date
		 FROM clients WHERE deleted_at IS NULL ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []core.Client
	for rows.Next() {
		var c core.Client
		var id int64
		var joinDate sql.NullTime
		if err := rows.Scan(&id, &c.ClientID, &c.Name, &c.Email, &c.Phone, &c.Address,
			&c.Website, &c.Industry, &c.Notes, &c.Status, &joinDate); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.ID = strconv.FormatInt(id, 10)
		if joinDate.Valid {
			c.JoinDate = joinDate.Time
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateClient implements datastore.ClientWriter.
func (r *SQLiteRepository) CreateClient(ctx context.Context, c core.Client) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if c.Status == "" {
		c.Status = core.StatusActive
	}
	joinDate := sql.NullTime{Time: c.JoinDate, Valid: !c.JoinDate.IsZero()}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (client_id, name, email, phone, address, website, industry, notes, status, join_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ClientID, c.Name, c.Email, c.Phone, c.Address, c.Website, c.Industry, c.Notes, c.Status, joinDate)
	if err != nil {
		return "", fmt.Errorf("insert client: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// UpdateClient implements datastore.ClientWriter.
func (r *SQLiteRepository) UpdateClient(ctx context.Context, c core.Client) error {
	if err := c.Validate(); err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid client id %q: %w", c.ID, err)
	}
	joinDate := sql.NullTime{Time: c.JoinDate, Valid: !c.JoinDate.IsZero()}
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET client_id = ?, name = ?, email = ?, phone = ?, address = ?,
			website = ?, industry = ?, notes = ?, status = ?, join_date = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		c.ClientID, c.Name, c.Email, c.Phone, c.Address, c.Website, c.Industry, c.Notes, c.Status, joinDate, id)
	if err != nil {
		return fmt.Errorf("update client %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("client %d: %w", id, datastore.ErrNotFound)
	}
	return nil
}

// DeleteClient implements datastore.ClientWriter as a soft delete.
func (r *SQLiteRepository) DeleteClient(ctx context.Context, idStr string) error {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid client id %q: %w", idStr, err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("delete client %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("client %d: %w", id, datastore.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (core.Invoice, int64, error) {
	var inv core.Invoice
	var id int64
	var created time.Time
	err := row.Scan(&id, &inv.ClientID, &inv.Company, &inv.Description, &inv.Quantity,
		&inv.UnitPrice, &inv.Total, &inv.Currency, &inv.InvoiceNumber, &inv.Status,
		&inv.ProcessingTime, &created)
	if err != nil {
		return core.Invoice{}, 0, err
	}
	inv.ID = strconv.FormatInt(id, 10)
	inv.Created = created
	return inv, id, nil
}
