package analytics

import (
	"context"
	"testing"
	"time"

	"invoicesense/internal/core"
)

func TestBuildRevenueReport(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, 0, -10), End: engineNow}
	records := []core.Invoice{
		inv("Acme", "web", 600, "USD", engineNow.AddDate(0, 0, -1)),
		inv("Acme", "web", 400, "USD", engineNow.AddDate(0, 0, -1)),
		inv("Beta", "design", 250, "USD", engineNow.AddDate(0, 0, -4)),
		// Previous period.
		inv("Acme", "web", 500, "USD", engineNow.AddDate(0, 0, -15)),
	}
	got := BuildRevenueReport(records, window)

	if got.Summary.TotalRevenue != 1250 {
		t.Fatalf("TotalRevenue = %v, want 1250", got.Summary.TotalRevenue)
	}
	if got.Summary.InvoiceCount != 3 {
		t.Fatalf("InvoiceCount = %d, want 3", got.Summary.InvoiceCount)
	}
	if got.Summary.Period != "10 days" {
		t.Fatalf("Period = %q, want 10 days", got.Summary.Period)
	}
	if got.Summary.AverageDaily != 125 {
		t.Fatalf("AverageDaily = %v, want 125", got.Summary.AverageDaily)
	}
	// Highest/lowest consider only days with records: 1000 and 250.
	if got.Summary.HighestDay != 1000 || got.Summary.LowestDay != 250 {
		t.Fatalf("HighestDay/LowestDay = %v/%v, want 1000/250", got.Summary.HighestDay, got.Summary.LowestDay)
	}
	// (1250-500)/500*100 = 150
	if got.Summary.GrowthRate != 150 {
		t.Fatalf("GrowthRate = %v, want 150", got.Summary.GrowthRate)
	}
	if len(got.DailyBreakdown) != 2 {
		t.Fatalf("DailyBreakdown len = %d, want 2", len(got.DailyBreakdown))
	}
	// Newest date first.
	if got.DailyBreakdown[0].Revenue != 1000 || got.DailyBreakdown[1].Revenue != 250 {
		t.Fatalf("breakdown order wrong: %+v", got.DailyBreakdown)
	}
	if len(got.TopClients) != 2 || got.TopClients[0].Name != "Acme" {
		t.Fatalf("TopClients = %+v, want Acme first", got.TopClients)
	}
}

func TestBuildRevenueReportCapsBreakdownAt30(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, 0, -40), End: engineNow}
	records := make([]core.Invoice, 0, 40)
	for i := 1; i <= 40; i++ {
		records = append(records, inv("Acme", "web", 10, "USD", engineNow.AddDate(0, 0, -i)))
	}
	got := BuildRevenueReport(records, window)
	if len(got.DailyBreakdown) != 30 {
		t.Fatalf("DailyBreakdown len = %d, want 30", len(got.DailyBreakdown))
	}
}

func TestCurrencyBreakdownPercentages(t *testing.T) {
	records := []core.Invoice{
		inv("Acme", "web", 3000, "USD", engineNow),
		inv("Basra Co", "design", 4000, "IQD", engineNow),
		inv("Gamma", "ads", 0, "", engineNow),
	}
	got := currencyBreakdown(records)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (blank currency folds into USD)", len(got))
	}
	// Sorted by amount descending; percentages keep two decimals.
	if got[0].Currency != "IQD" || got[0].Percentage != 57.14 {
		t.Fatalf("got[0] = %+v, want IQD 57.14", got[0])
	}
	if got[1].Currency != "USD" || got[1].Percentage != 42.86 {
		t.Fatalf("got[1] = %+v, want USD 42.86", got[1])
	}
}

func TestBuildClientReport(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, 0, -7), End: engineNow}
	clients := []core.Client{
		{ID: "1", ClientID: "CL-1", Name: "Acme", Status: core.StatusActive, JoinDate: engineNow.AddDate(0, 0, -2)},
		{ID: "2", Name: "Beta", Status: core.StatusActive, JoinDate: engineNow.AddDate(-1, 0, 0)},
		{ID: "3", Name: "Gone", Status: "inactive", JoinDate: engineNow.AddDate(-1, 0, 0)},
		{ID: "4", Name: "Quiet"},
	}
	records := []core.Invoice{
		{ClientID: "CL-1", Company: "Acme Corp", Total: 500, Created: engineNow.AddDate(0, 0, -1)},
		{ClientID: "CL-1", Company: "Acme Corp", Total: 250, Created: engineNow.AddDate(0, 0, -10)},
		{Company: "Beta", Total: 300, Created: engineNow.AddDate(0, 0, -3)},
	}
	got := BuildClientReport(clients, records, window)

	if got.Summary.TotalClients != 4 {
		t.Fatalf("TotalClients = %d, want 4", got.Summary.TotalClients)
	}
	// Quiet has no status and defaults to active.
	if got.Summary.ActiveClients != 3 {
		t.Fatalf("ActiveClients = %d, want 3", got.Summary.ActiveClients)
	}
	if got.Summary.NewClients != 1 {
		t.Fatalf("NewClients = %d, want 1", got.Summary.NewClients)
	}
	// 1 of 4 inactive.
	if got.Summary.ChurnRate != 25 {
		t.Fatalf("ChurnRate = %v, want 25", got.Summary.ChurnRate)
	}
	if got.Summary.AverageRevenue != 262.5 {
		t.Fatalf("AverageRevenue = %v, want 262.5", got.Summary.AverageRevenue)
	}
	if got.ClientList[0].Name != "Acme" || got.ClientList[0].Revenue != 750 || got.ClientList[0].Invoices != 2 {
		t.Fatalf("ClientList[0] = %+v, want Acme 750/2", got.ClientList[0])
	}
	if got.ClientList[0].LastInvoice != core.ISODate(engineNow.AddDate(0, 0, -1)) {
		t.Fatalf("LastInvoice = %q", got.ClientList[0].LastInvoice)
	}

	var acme, beta TopPerformer
	for _, p := range got.TopPerformers {
		switch p.Name {
		case "Acme":
			acme = p
		case "Beta":
			beta = p
		}
	}
	// Acme: window 500 vs previous 250 -> 100% growth.
	if acme.Growth != 100 {
		t.Fatalf("Acme growth = %v, want 100", acme.Growth)
	}
	// Beta has no previous-period revenue, so growth is guarded to 0.
	if beta.Growth != 0 {
		t.Fatalf("Beta growth = %v, want 0", beta.Growth)
	}
}

func TestBuildInvoiceReport(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, -3, 0), End: engineNow}
	mk := func(status string, total, secs float64, created time.Time) core.Invoice {
		i := inv("Acme", "web development", total, "USD", created)
		i.Status = status
		i.ProcessingTime = secs
		return i
	}
	records := []core.Invoice{
		mk("Processed", 400, 2, engineNow.AddDate(0, 0, -1)),
		mk("processing_failed", 0, 0, engineNow.AddDate(0, 0, -2)),
		mk("Error: timeout", 0, 0, engineNow.AddDate(0, 0, -3)),
		mk("Processed", 600, 4, engineNow.AddDate(0, -2, 0)),
	}
	got := BuildInvoiceReport(records, window)

	if got.Summary.TotalInvoices != 4 {
		t.Fatalf("TotalInvoices = %d, want 4", got.Summary.TotalInvoices)
	}
	if got.Summary.SuccessfulProcessing != 2 || got.Summary.FailedProcessing != 2 {
		t.Fatalf("processed/failed = %d/%d, want 2/2", got.Summary.SuccessfulProcessing, got.Summary.FailedProcessing)
	}
	// Only the two timed invoices count: (2+4)/2.
	if got.Summary.AverageProcessingTime != 3 {
		t.Fatalf("AverageProcessingTime = %v, want 3", got.Summary.AverageProcessingTime)
	}
	if got.Summary.AverageValue != 250 || got.Summary.TotalValue != 1000 {
		t.Fatalf("AverageValue/TotalValue = %v/%v, want 250/1000", got.Summary.AverageValue, got.Summary.TotalValue)
	}
	if got.StatusBreakdown[0].Percentage != 50 || got.StatusBreakdown[1].Percentage != 50 {
		t.Fatalf("StatusBreakdown = %+v, want 50/50", got.StatusBreakdown)
	}
	if len(got.MonthlyTrend) != 2 {
		t.Fatalf("MonthlyTrend len = %d, want 2", len(got.MonthlyTrend))
	}
	// Newest month first.
	if got.MonthlyTrend[0].Month != engineNow.AddDate(0, 0, -1).Format("January 2006") {
		t.Fatalf("MonthlyTrend[0] = %+v, want newest month first", got.MonthlyTrend[0])
	}
	if got.MonthlyTrend[0].Invoices != 3 || got.MonthlyTrend[1].Invoices != 1 {
		t.Fatalf("MonthlyTrend counts = %d/%d, want 3/1", got.MonthlyTrend[0].Invoices, got.MonthlyTrend[1].Invoices)
	}
}

func TestStatusBreakdownPercentagesSumTo100(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, 0, -7), End: engineNow}
	records := []core.Invoice{
		inv("A", "web", 1, "USD", engineNow.AddDate(0, 0, -1)),
		inv("B", "web", 1, "USD", engineNow.AddDate(0, 0, -1)),
		{Company: "C", Status: "Failed", Created: engineNow.AddDate(0, 0, -1)},
	}
	got := BuildInvoiceReport(records, window)
	sum := got.StatusBreakdown[0].Percentage + got.StatusBreakdown[1].Percentage
	if core.Round2(sum) != 100 {
		t.Fatalf("status percentages sum to %v, want 100", sum)
	}
}

func TestBuildSummary(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, 0, -30), End: engineNow}
	records := make([]core.Invoice, 0, 20)
	companies := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i := 0; i < 20; i++ {
		records = append(records, inv(companies[i%len(companies)], "web development", float64(100+i), "USD", engineNow.AddDate(0, 0, -(i%10+1))))
	}
	failed := inv("A", "web", 0, "USD", engineNow.AddDate(0, 0, -1))
	failed.Status = core.StatusFailed
	records = append(records, failed)
	clients := []core.Client{
		{ID: "1", Name: "A", Status: core.StatusActive},
		{ID: "2", Name: "B", Status: "inactive"},
	}

	got, err := BuildSummary(context.Background(), clients, records, window)
	if err != nil {
		t.Fatalf("BuildSummary: %v", err)
	}
	if got.Summary.TotalInvoices != 21 {
		t.Fatalf("TotalInvoices = %d, want 21", got.Summary.TotalInvoices)
	}
	// 20 of 21 processed.
	if got.Summary.SuccessRate != core.Round2(20.0/21.0*100) {
		t.Fatalf("SuccessRate = %v", got.Summary.SuccessRate)
	}
	if got.Summary.SuccessRate != got.Invoices.SuccessRate {
		t.Fatalf("summary and invoice success rates differ")
	}
	if len(got.Revenue.Trend) != 7 {
		t.Fatalf("trend len = %d, want 7", len(got.Revenue.Trend))
	}
	if len(got.Revenue.TopClients) != 5 {
		t.Fatalf("topClients len = %d, want 5", len(got.Revenue.TopClients))
	}
	if got.Clients.ActiveClients != 1 || got.Clients.ChurnRate != 50 {
		t.Fatalf("clients = %+v, want 1 active, 50 churn", got.Clients)
	}
	if got.Summary.Period != "30 days" {
		t.Fatalf("Period = %q, want 30 days", got.Summary.Period)
	}
}
