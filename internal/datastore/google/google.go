// Package google implements the datastore ports on top of a Google
// spreadsheet: one tab of invoice line items, one tab of clients. Rows are
// addressed by header name so column order in the sheet does not matter.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"invoicesense/internal/core"
	"invoicesense/internal/datastore"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	invoicesSheet string
	clientsSheet  string
}

// Ensure interface conformance
var (
	_ datastore.InvoiceSource = (*Client)(nil)
	_ datastore.InvoiceWriter = (*Client)(nil)
	_ datastore.ClientSource  = (*Client)(nil)
	_ datastore.ClientWriter  = (*Client)(nil)
)

// Config selects the spreadsheet and tab names.
type Config struct {
	SpreadsheetID string
	InvoicesSheet string // default "Invoices"
	ClientsSheet  string // default "Clients"
}

// New creates a spreadsheet datastore using service account credentials
// (GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS).
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if cfg.InvoicesSheet == "" {
		cfg.InvoicesSheet = "Invoices"
	}
	if cfg.ClientsSheet == "" {
		cfg.ClientsSheet = "Clients"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		invoicesSheet: cfg.InvoicesSheet,
		clientsSheet:  cfg.ClientsSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ListInvoices reads the invoices tab and maps rows to normalized records.
func (c *Client) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A1:L", c.invoicesSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	invoices, err := parseInvoiceRows(resp.Values, c.invoicesSheet)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "Fetched invoices from spreadsheet",
		"sheet", c.invoicesSheet, "count", len(invoices))
	return invoices, nil
}

// AppendInvoices appends one row per line item and returns row references.
func (c *Client) AppendInvoices(ctx context.Context, invoices []core.Invoice) ([]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	if len(invoices) == 0 {
		return nil, nil
	}

	// Find the next empty row from the sheet dimensions first.
	rng := fmt.Sprintf("%s!A:A", c.invoicesSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get sheet dimensions for %s: %w", c.invoicesSheet, err)
	}
	nextRow := len(resp.Values) + 1

	values := make([][]any, 0, len(invoices))
	refs := make([]string, 0, len(invoices))
	for i, inv := range invoices {
		inv = inv.Normalize()
		values = append(values, invoiceRow(inv))
		refs = append(refs, fmt.Sprintf("%s!A%d:L%d", c.invoicesSheet, nextRow+i, nextRow+i))
	}

	dataRange := fmt.Sprintf("%s!A%d:L%d", c.invoicesSheet, nextRow, nextRow+len(invoices)-1)
	vr := &gsheet.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("append invoices to %s: %w", c.invoicesSheet, err)
	}

	slog.InfoContext(ctx, "Appended invoices to spreadsheet",
		"sheet", c.invoicesSheet, "count", len(invoices), "first_row", nextRow)
	return refs, nil
}

// ListClients reads the clients tab.
func (c *Client) ListClients(ctx context.Context) ([]core.Client, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A1:J", c.clientsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseClientRows(resp.Values, c.clientsSheet)
}

// CreateClient appends a client row; the row reference doubles as the ID.
func (c *Client) CreateClient(ctx context.Context, client core.Client) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if err := client.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	rng := fmt.Sprintf("%s!A:A", c.clientsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.clientsSheet, err)
	}
	nextRow := len(resp.Values) + 1
	ref := fmt.Sprintf("%s!A%d", c.clientsSheet, nextRow)
	if client.ID == "" {
		client.ID = ref
	}

	dataRange := fmt.Sprintf("%s!A%d:J%d", c.clientsSheet, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{clientRow(client)}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append client to %s: %w", c.clientsSheet, err)
	}
	return ref, nil
}

// UpdateClient rewrites the row addressed by the client ID.
func (c *Client) UpdateClient(ctx context.Context, client core.Client) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if err := client.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	row, err := c.findClientRow(ctx, client.ID)
	if err != nil {
		return err
	}
	dataRange := fmt.Sprintf("%s!A%d:J%d", c.clientsSheet, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{clientRow(client)}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update client row %d: %w", row, err)
	}
	return nil
}

// DeleteClient blanks the row addressed by the client ID. Row removal would
// shift every reference handed out earlier, so rows are cleared instead.
func (c *Client) DeleteClient(ctx context.Context, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	row, err := c.findClientRow(ctx, id)
	if err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!A%d:J%d", c.clientsSheet, row, row)
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear client row %d: %w", row, err)
	}
	return nil
}

func (c *Client) findClientRow(ctx context.Context, id string) (int, error) {
	rng := fmt.Sprintf("%s!A1:J", c.clientsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", rng, err)
	}
	clients, err := parseClientRows(resp.Values, c.clientsSheet)
	if err != nil {
		return 0, err
	}
	for _, cl := range clients {
		if cl.ID == id || cl.ClientID == id {
			// Parsed IDs are row references like "Clients!A5".
			var row int
			if _, err := fmt.Sscanf(cl.ID, c.clientsSheet+"!A%d", &row); err == nil && row > 1 {
				return row, nil
			}
		}
	}
	return 0, fmt.Errorf("client %s: %w", id, datastore.ErrNotFound)
}
