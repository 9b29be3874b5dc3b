package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"invoicesense/internal/analytics"
)

// handleReports serves the typed reports: revenue, clients, invoices, or
// the combined summary.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reportType := strings.TrimSpace(r.URL.Query().Get("type"))
	if reportType == "" {
		reportType = "summary"
	}

	key := "reports:" + reportType + ":" + rangeKey(r)
	if payload, ok := s.payloadCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Report cache hit", "key", key)
		writeRawJSON(w, http.StatusOK, payload)
		return
	}

	window := parseWindow(r, time.Now())

	records, err := s.invSource.ListInvoices(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List invoices error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load invoice records")
		return
	}

	var data any
	switch reportType {
	case "revenue":
		data = analytics.BuildRevenueReport(records, window)
	case "clients":
		clients, err := s.cliSource.ListClients(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "List clients error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load clients")
			return
		}
		data = analytics.BuildClientReport(clients, records, window)
	case "invoices":
		data = analytics.BuildInvoiceReport(records, window)
	case "summary":
		clients, err := s.cliSource.ListClients(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "List clients error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load clients")
			return
		}
		summary, err := analytics.BuildSummary(r.Context(), clients, records, window)
		if err != nil {
			slog.ErrorContext(r.Context(), "Build summary error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to build summary report")
			return
		}
		data = summary
	default:
		writeError(w, http.StatusBadRequest, "unknown report type: "+reportType)
		return
	}

	encoded, err := json.Marshal(envelope{Success: true, Data: data})
	if err != nil {
		slog.ErrorContext(r.Context(), "Encode report payload error", "error", err, "type", reportType)
		writeError(w, http.StatusInternalServerError, "failed to encode report")
		return
	}

	s.payloadCache.Set(key, encoded)
	writeRawJSON(w, http.StatusOK, encoded)
}
