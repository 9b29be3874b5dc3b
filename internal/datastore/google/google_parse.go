package google

import (
	"fmt"
	"strings"

	"invoicesense/internal/core"
)

// The invoice tab carries the columns ID, Client ID, Company, Description,
// Quantity, Unit Price, Total, Currency, Invoice Number, Status,
// Processing Time, Created. "Created" holds the ingestion timestamp written
// at append time; "Date" is the business date and acts as the fallback when
// Created is blank.

// parseInvoiceRows converts a values matrix (header row first) into
// normalized invoices. Money cells go through ParseAmount, so currency
// symbols and separators in the sheet are tolerated and garbage becomes 0.
func parseInvoiceRows(values [][]interface{}, sheetName string) ([]core.Invoice, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := toStrings(values[0])
	col := func(name string) int { return indexOf(headers, name) }
	if col("Total") == -1 || col("Company") == -1 {
		return nil, fmt.Errorf("unexpected invoice header: got %v", headers)
	}

	invoices := make([]core.Invoice, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		inv := core.Invoice{
			ID:             safeGet(row, col("ID")),
			ClientID:       safeGet(row, col("Client ID")),
			Company:        safeGet(row, col("Company")),
			Description:    safeGet(row, col("Description")),
			Quantity:       core.ParseAmount(safeGet(row, col("Quantity"))),
			UnitPrice:      core.ParseAmount(safeGet(row, col("Unit Price"))),
			Total:          core.ParseAmount(safeGet(row, col("Total"))),
			Currency:       safeGet(row, col("Currency")),
			InvoiceNumber:  safeGet(row, col("Invoice Number")),
			Status:         safeGet(row, col("Status")),
			ProcessingTime: core.ParseAmount(safeGet(row, col("Processing Time"))),
		}
		if inv.ID == "" {
			inv.ID = fmt.Sprintf("%s!A%d", sheetName, i+1)
		}
		created := safeGet(row, col("Created"))
		if created == "" {
			created = safeGet(row, col("Date"))
		}
		if t, err := core.ParseTimestamp(created); err == nil {
			inv.Created = t
		}
		invoices = append(invoices, inv.Normalize())
	}
	return invoices, nil
}

func invoiceRow(inv core.Invoice) []any {
	return []any{
		inv.ID,
		inv.ClientID,
		inv.Company,
		inv.Description,
		inv.Quantity,
		inv.UnitPrice,
		inv.Total,
		inv.Currency,
		inv.InvoiceNumber,
		inv.Status,
		inv.ProcessingTime,
		inv.Created.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func parseClientRows(values [][]interface{}, sheetName string) ([]core.Client, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := toStrings(values[0])
	col := func(name string) int { return indexOf(headers, name) }
	if col("Name") == -1 {
		return nil, fmt.Errorf("unexpected client header: got %v", headers)
	}

	clients := make([]core.Client, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		c := core.Client{
			ID:       fmt.Sprintf("%s!A%d", sheetName, i+1),
			ClientID: safeGet(row, col("Client ID")),
			Name:     safeGet(row, col("Name")),
			Email:    safeGet(row, col("Email")),
			Phone:    safeGet(row, col("Phone")),
			Address:  safeGet(row, col("Address")),
			Website:  safeGet(row, col("Website")),
			Industry: safeGet(row, col("Industry")),
			Notes:    safeGet(row, col("Notes")),
			Status:   safeGet(row, col("Status")),
		}
		if c.Status == "" {
			c.Status = core.StatusActive
		}
		if t, err := core.ParseTimestamp(safeGet(row, col("Join Date"))); err == nil {
			c.JoinDate = t
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func clientRow(c core.Client) []any {
	joinDate := ""
	if !c.JoinDate.IsZero() {
		joinDate = core.ISODate(c.JoinDate)
	}
	return []any{
		c.ClientID,
		c.Name,
		c.Email,
		c.Phone,
		c.Address,
		c.Website,
		c.Industry,
		c.Notes,
		c.Status,
		joinDate,
	}
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func safeGet(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
