package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"invoicesense/internal/core"
	"invoicesense/internal/extract"
)

// maxUploadSize caps invoice image uploads at 10MB.
const maxUploadSize = 10 << 20

// uploadResult is the response body for a processed upload.
type uploadResult struct {
	Invoices []uploadedInvoice `json:"invoices"`
	Demo     bool              `json:"demo"`
}

type uploadedInvoice struct {
	Ref            string  `json:"ref"`
	Company        string  `json:"company"`
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity"`
	UnitPrice      float64 `json:"unitPrice"`
	Total          float64 `json:"total"`
	Currency       string  `json:"currency"`
	InvoiceNumber  string  `json:"invoiceNumber,omitempty"`
	Status         string  `json:"status"`
	ProcessingTime float64 `json:"processingTime"`
}

// handleUpload accepts a multipart invoice image, extracts its line items
// and appends them to the datastore. Without a configured extractor, or
// when extraction fails, demo records are stored instead so the flow stays
// usable end to end.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large: max 10MB")
		return
	}

	file, header, err := r.FormFile("invoice")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing invoice image: field 'invoice' is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		writeError(w, http.StatusUnsupportedMediaType, "only image uploads are supported")
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		slog.ErrorContext(r.Context(), "Read upload error", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	invoices, demo := s.extractUpload(r, imageData, mimeType)
	fillInvoiceNumbers(invoices, time.Now())
	s.ensureClient(r.Context(), invoices)

	refs, err := s.invWriter.AppendInvoices(r.Context(), invoices)
	if err != nil {
		slog.ErrorContext(r.Context(), "Append invoices error", "error", err, "items", len(invoices))
		writeError(w, http.StatusInternalServerError, "failed to store extracted invoices")
		return
	}

	s.invalidatePayloads()

	result := uploadResult{Demo: demo, Invoices: make([]uploadedInvoice, 0, len(invoices))}
	for i, inv := range invoices {
		u := uploadedInvoice{
			Company:        inv.Company,
			Description:    inv.Description,
			Quantity:       inv.Quantity,
			UnitPrice:      inv.UnitPrice,
			Total:          inv.Total,
			Currency:       inv.Currency,
			InvoiceNumber:  inv.InvoiceNumber,
			Status:         inv.Status,
			ProcessingTime: inv.ProcessingTime,
		}
		if i < len(refs) {
			u.Ref = refs[i]
		}
		result.Invoices = append(result.Invoices, u)
	}

	message := "invoice processed"
	if demo {
		message = "invoice processed with demo data"
	}
	writeJSON(w, http.StatusCreated, result, message)
}

// fillInvoiceNumbers assigns a fallback number to any line item the model
// left without one. All items from one upload share a timestamp base and
// get a per-line suffix.
func fillInvoiceNumbers(invoices []core.Invoice, now time.Time) {
	base := strconv.FormatInt(now.UnixMilli(), 10)
	if len(base) > 8 {
		base = base[len(base)-8:]
	}
	for i := range invoices {
		if invoices[i].InvoiceNumber == "" {
			invoices[i].InvoiceNumber = fmt.Sprintf("INV-%s-%d", base, i+1)
		}
	}
}

// ensureClient adds the extracted company to the client roster when no
// entry matches it yet. Roster maintenance is best effort: the invoice
// rows are stored either way, so failures only log a warning.
func (s *Server) ensureClient(ctx context.Context, invoices []core.Invoice) {
	if len(invoices) == 0 {
		return
	}
	company := strings.TrimSpace(invoices[0].Company)
	if company == "" {
		return
	}

	clients, err := s.cliSource.ListClients(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Could not load client roster, skipping auto-create", "error", err)
		return
	}
	for _, c := range clients {
		if strings.EqualFold(strings.TrimSpace(c.Name), company) || c.Matches(invoices[0]) {
			return
		}
	}

	id, err := s.cliWriter.CreateClient(ctx, core.Client{
		Name:     company,
		ClientID: invoices[0].ClientID,
		Status:   core.StatusActive,
		JoinDate: time.Now(),
		Industry: "Unknown",
		Notes:    "Auto-created from invoice processing",
	})
	if err != nil {
		slog.WarnContext(ctx, "Could not auto-create client, continuing with invoice storage", "company", company, "error", err)
		return
	}
	slog.InfoContext(ctx, "Auto-created client from upload", "company", company, "id", id)
}

// extractUpload runs the extractor when configured and falls back to demo
// records on any failure.
func (s *Server) extractUpload(r *http.Request, imageData []byte, mimeType string) ([]core.Invoice, bool) {
	if s.extractor == nil {
		slog.InfoContext(r.Context(), "Extractor not configured, using demo data")
		return extract.DemoInvoices(time.Now()), true
	}

	invoices, err := s.extractor.ExtractInvoice(r.Context(), imageData, mimeType)
	if err != nil {
		slog.ErrorContext(r.Context(), "Extraction failed, falling back to demo data", "error", err)
		return extract.DemoInvoices(time.Now()), true
	}
	return invoices, false
}
