package http

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"invoicesense/internal/core"
)

// handleExport streams invoices or clients as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	exportType := r.URL.Query().Get("type")
	switch exportType {
	case "", "invoices":
		s.exportInvoices(w, r)
	case "clients":
		s.exportClients(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown export type: "+exportType)
	}
}

func (s *Server) exportInvoices(w http.ResponseWriter, r *http.Request) {
	records, err := s.invSource.ListInvoices(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List invoices error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load invoice records")
		return
	}

	setCSVHeaders(w, "invoices")
	cw := csv.NewWriter(w)
	defer cw.Flush()

	_ = cw.Write([]string{
		"ID", "Client", "Description", "Quantity", "Unit Price",
		"Total", "Currency", "Invoice Number", "Status", "Created",
	})
	for _, inv := range records {
		_ = cw.Write([]string{
			inv.ID,
			inv.Company,
			inv.Description,
			formatNumber(inv.Quantity),
			formatNumber(inv.UnitPrice),
			formatNumber(inv.Total),
			inv.Currency,
			inv.InvoiceNumber,
			inv.Status,
			inv.Created.UTC().Format(time.RFC3339),
		})
	}
}

func (s *Server) exportClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.cliSource.ListClients(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List clients error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load clients")
		return
	}

	setCSVHeaders(w, "clients")
	cw := csv.NewWriter(w)
	defer cw.Flush()

	_ = cw.Write([]string{
		"ID", "Name", "Email", "Phone", "Address",
		"Website", "Industry", "Status", "Join Date",
	})
	for _, c := range clients {
		joinDate := ""
		if !c.JoinDate.IsZero() {
			joinDate = core.ISODate(c.JoinDate)
		}
		_ = cw.Write([]string{
			c.ID, c.Name, c.Email, c.Phone, c.Address,
			c.Website, c.Industry, c.Status, joinDate,
		})
	}
}

func setCSVHeaders(w http.ResponseWriter, kind string) {
	filename := fmt.Sprintf("%s-%s.csv", kind, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
