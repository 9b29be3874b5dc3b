package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"invoicesense/internal/core"
)

// extractedInvoice mirrors the JSON shape the structuring prompt asks for.
type extractedInvoice struct {
	Company       string          `json:"company"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Currency      string          `json:"currency"`
	Items         []extractedItem `json:"items"`
}

type extractedItem struct {
	Description string `json:"description"`
	Quantity    any    `json:"quantity"`
	UnitPrice   any    `json:"unitPrice"`
	Total       any    `json:"total"`
}

// parseExtraction pulls the first JSON object out of a model reply and maps
// it to invoices. Models occasionally wrap the JSON in fences or prose, so
// the raw reply is scanned for the outermost braces first.
func parseExtraction(reply string) ([]core.Invoice, error) {
	block, err := jsonBlock(reply)
	if err != nil {
		return nil, err
	}

	var ext extractedInvoice
	if err := json.Unmarshal([]byte(block), &ext); err != nil {
		return nil, fmt.Errorf("unmarshal extraction: %w", err)
	}

	if len(ext.Items) == 0 {
		return nil, fmt.Errorf("no line items in extraction")
	}

	invoices := make([]core.Invoice, 0, len(ext.Items))
	for _, item := range ext.Items {
		qty := core.ParseAmount(item.Quantity)
		unit := core.ParseAmount(item.UnitPrice)
		total := core.ParseAmount(item.Total)
		if total == 0 && qty > 0 && unit > 0 {
			total = qty * unit
		}
		inv := core.Invoice{
			Company:       strings.TrimSpace(ext.Company),
			Description:   strings.TrimSpace(item.Description),
			Quantity:      qty,
			UnitPrice:     unit,
			Total:         total,
			Currency:      strings.ToUpper(strings.TrimSpace(ext.Currency)),
			InvoiceNumber: strings.TrimSpace(ext.InvoiceNumber),
			Status:        core.StatusProcessed,
		}
		invoices = append(invoices, inv.Normalize())
	}
	return invoices, nil
}

// jsonBlock returns the substring between the first '{' and the last '}'.
func jsonBlock(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in model reply")
	}
	return s[start : end+1], nil
}
