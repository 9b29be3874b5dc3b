package google

import "testing"

func TestParseInvoiceRows(t *testing.T) {
	values := [][]interface{}{
		{"ID", "Client ID", "Company", "Description", "Quantity", "Unit Price", "Total", "Currency", "Invoice Number", "Status", "Processing Time", "Created"},
		{"rec-1", "CL-1", "Acme", "Web work", "2", "$75.00", "$150.00", "USD", "INV-1", "Processed", "11.2", "2024-06-01T10:00:00Z"},
		{"", "", "", "", "", "", "", "", "", "", "", ""},
		{"", "CL-2", "Basra Co", "Ads", "1", "500000", "IQD 500,000", "IQD", "", "", "", "2024-06-02"},
	}
	got, err := parseInvoiceRows(values, "Invoices")
	if err != nil {
		t.Fatalf("parseInvoiceRows: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (blank row skipped)", len(got))
	}
	if got[0].ID != "rec-1" || got[0].Total != 150 || got[0].UnitPrice != 75 {
		t.Fatalf("got[0] = %+v", got[0])
	}
	if got[0].Created.IsZero() {
		t.Fatalf("got[0] created not parsed")
	}
	// Second row has no ID; the cell reference fills in. Currency parsing
	// strips the symbol and separators, Normalize defaults the status.
	if got[1].ID != "Invoices!A4" {
		t.Fatalf("got[1].ID = %q, want Invoices!A4", got[1].ID)
	}
	if got[1].Total != 500000 {
		t.Fatalf("got[1].Total = %v, want 500000", got[1].Total)
	}
	if got[1].Status == "" {
		t.Fatalf("got[1] status not defaulted")
	}
}

func TestParseInvoiceRowsDateFallback(t *testing.T) {
	values := [][]interface{}{
		{"Company", "Total", "Date"},
		{"Acme", "100", "2024-05-20"},
	}
	got, err := parseInvoiceRows(values, "Invoices")
	if err != nil {
		t.Fatalf("parseInvoiceRows: %v", err)
	}
	if len(got) != 1 || got[0].Created.IsZero() {
		t.Fatalf("Date column not used as Created fallback: %+v", got)
	}
}

func TestParseInvoiceRowsBadHeader(t *testing.T) {
	values := [][]interface{}{
		{"Foo", "Bar"},
		{"x", "y"},
	}
	if _, err := parseInvoiceRows(values, "Invoices"); err == nil {
		t.Fatalf("expected header error")
	}
}

func TestParseInvoiceRowsEmpty(t *testing.T) {
	got, err := parseInvoiceRows(nil, "Invoices")
	if err != nil || got != nil {
		t.Fatalf("got %v, %v; want nil, nil", got, err)
	}
}

func TestParseClientRows(t *testing.T) {
	values := [][]interface{}{
		{"Client ID", "Name", "Email", "Phone", "Address", "Website", "Industry", "Notes", "Status", "Join Date"},
		{"CL-1", "Acme", "a@acme.com", "", "", "", "Technology", "", "active", "2023-06-15"},
		{"", "Beta", "b@beta.com"},
	}
	got, err := parseClientRows(values, "Clients")
	if err != nil {
		t.Fatalf("parseClientRows: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "Clients!A2" || got[0].ClientID != "CL-1" {
		t.Fatalf("got[0] = %+v", got[0])
	}
	if got[0].JoinDate.IsZero() {
		t.Fatalf("join date not parsed")
	}
	// Short rows are padded with blanks; status defaults to active.
	if got[1].Name != "Beta" || got[1].Status != "active" {
		t.Fatalf("got[1] = %+v", got[1])
	}
}

func TestParseClientRowsBadHeader(t *testing.T) {
	values := [][]interface{}{
		{"Nope"},
		{"x"},
	}
	if _, err := parseClientRows(values, "Clients"); err == nil {
		t.Fatalf("expected header error")
	}
}
