package analytics

import (
	"reflect"
	"testing"
	"time"

	"invoicesense/internal/core"
)

var engineNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func inv(company, desc string, total float64, currency string, created time.Time) core.Invoice {
	return core.Invoice{
		Company:     company,
		Description: desc,
		Total:       total,
		Currency:    currency,
		Status:      core.StatusProcessed,
		Created:     created,
	}
}

func TestComputeKPIs(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, 0, -7), End: engineNow}
	records := []core.Invoice{
		inv("Acme", "web work", 1000, "USD", engineNow.AddDate(0, 0, -1)),
		inv("Beta", "design", 500, "USD", engineNow.AddDate(0, 0, -2)),
		// Previous period.
		inv("Acme", "web work", 750, "USD", engineNow.AddDate(0, 0, -10)),
		// Outside both periods.
		inv("Gamma", "old", 9999, "USD", engineNow.AddDate(0, 0, -30)),
	}
	stats := ProcessingStats{SuccessRate: 95.5, AvgProcessingTime: 1.2}

	got := ComputeKPIs(records, window, stats)
	if got.TotalRevenue != 1500 {
		t.Fatalf("TotalRevenue = %v, want 1500", got.TotalRevenue)
	}
	if got.TotalInvoices != 2 {
		t.Fatalf("TotalInvoices = %d, want 2", got.TotalInvoices)
	}
	if got.TotalClients != 2 {
		t.Fatalf("TotalClients = %d, want 2", got.TotalClients)
	}
	if got.SuccessRate != 95.5 || got.AvgProcessingTime != 1.2 {
		t.Fatalf("stats not passed through: %+v", got)
	}
	// (1500-750)/750*100 = 100
	if got.RevenueGrowth != 100 {
		t.Fatalf("RevenueGrowth = %v, want 100", got.RevenueGrowth)
	}
	// 1 invoice previously, 2 now.
	if got.InvoiceGrowth != 100 {
		t.Fatalf("InvoiceGrowth = %v, want 100", got.InvoiceGrowth)
	}
}

func TestComputeKPIsEmptyPreviousPeriod(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, 0, -7), End: engineNow}
	records := []core.Invoice{
		inv("Acme", "web", 1000, "USD", engineNow.AddDate(0, 0, -1)),
	}
	got := ComputeKPIs(records, window, ProcessingStats{})
	if got.RevenueGrowth != 0 || got.InvoiceGrowth != 0 || got.ClientGrowth != 0 {
		t.Fatalf("growth with no prior data = %+v, want all 0", got)
	}
}

func TestGrowthPct(t *testing.T) {
	cases := []struct {
		current  float64
		previous float64
		want     float64
	}{
		{150, 100, 50},
		{100, 150, -33.33},
		{100, 100, 0},
		{100, 0, 0},
		{100, -5, 0},
		{0, 0, 0},
	}
	for _, c := range cases {
		if got := GrowthPct(c.current, c.previous); got != c.want {
			t.Fatalf("GrowthPct(%v, %v) = %v, want %v", c.current, c.previous, got, c.want)
		}
	}
}

func TestRevenueTrendZeroFill(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, 0, -7), End: engineNow}
	records := []core.Invoice{
		inv("Acme", "web", 300, "USD", engineNow.AddDate(0, 0, -3)),
		inv("Beta", "design", 200, "USD", engineNow.AddDate(0, 0, -3)),
	}
	points := RevenueTrend(records, window)
	if len(points) != window.Days() {
		t.Fatalf("len(points) = %d, want %d", len(points), window.Days())
	}
	busy := 0
	for _, p := range points {
		if p.Revenue == 0 && p.Invoices != 0 {
			t.Fatalf("zero-revenue point carries invoices: %+v", p)
		}
		if p.Revenue > 0 {
			busy++
			if p.Date != core.ISODate(engineNow.AddDate(0, 0, -3)) {
				t.Fatalf("revenue on wrong day: %+v", p)
			}
			if p.Revenue != 500 || p.Invoices != 2 {
				t.Fatalf("bucketed point = %+v, want revenue 500 invoices 2", p)
			}
		}
	}
	if busy != 1 {
		t.Fatalf("days with revenue = %d, want 1", busy)
	}
	if points[0].Date != core.ISODate(window.Start) {
		t.Fatalf("first point date = %q, want %q", points[0].Date, core.ISODate(window.Start))
	}
}

func TestRevenueTrendConservesWindowedRevenue(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, 0, -30), End: engineNow}
	records := []core.Invoice{
		inv("Acme", "web", 1200.5, "USD", engineNow.AddDate(0, 0, -1)),
		inv("Beta", "design", 330.25, "USD", engineNow.AddDate(0, 0, -5)),
		inv("Gamma", "consulting", 75, "USD", engineNow.AddDate(0, 0, -5)),
		inv("Delta", "ads", 990, "IQD", engineNow.AddDate(0, 0, -29)),
	}
	var fromTrend float64
	for _, p := range RevenueTrend(records, window) {
		fromTrend += p.Revenue
	}
	var windowed float64
	for _, r := range FilterWindow(records, window) {
		windowed += r.Total
	}
	if core.Round2(fromTrend) != core.Round2(windowed) {
		t.Fatalf("trend sums to %v, windowed total is %v", fromTrend, windowed)
	}
}

func TestTopClients(t *testing.T) {
	records := []core.Invoice{
		inv("Beta", "design", 200, "USD", engineNow),
		inv("Acme", "web", 500, "USD", engineNow),
		inv("Beta", "design", 400, "USD", engineNow),
	}
	got := TopClients(records, 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "Beta" || got[0].Revenue != 600 || got[0].Invoices != 2 {
		t.Fatalf("got[0] = %+v, want Beta 600/2", got[0])
	}
	if got[1].Name != "Acme" || got[1].Revenue != 500 {
		t.Fatalf("got[1] = %+v, want Acme 500", got[1])
	}
}

func TestTopClientsStableOnTies(t *testing.T) {
	records := []core.Invoice{
		inv("Zeta", "web", 100, "USD", engineNow),
		inv("Alpha", "web", 100, "USD", engineNow),
		inv("Mid", "web", 100, "USD", engineNow),
	}
	got := TopClients(records, 10)
	want := []string{"Zeta", "Alpha", "Mid"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("tie order broken: got[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestTopClientsDefaultLimit(t *testing.T) {
	records := make([]core.Invoice, 0, 8)
	for i := 0; i < 8; i++ {
		records = append(records, inv(string(rune('A'+i)), "web", float64(100*(8-i)), "USD", engineNow))
	}
	if got := TopClients(records, 0); len(got) != DefaultTopClients {
		t.Fatalf("len = %d, want %d", len(got), DefaultTopClients)
	}
}

func TestCurrencyDistribution(t *testing.T) {
	// 3000/7000 = 42.86% -> 43, 4000/7000 = 57.14% -> 57. Amounts are
	// summed across currencies without conversion.
	records := []core.Invoice{
		inv("Acme", "web", 1800, "USD", engineNow),
		inv("Acme", "web", 1200, "USD", engineNow),
		inv("Basra Co", "design", 4000, "IQD", engineNow),
	}
	got := CurrencyDistribution(records)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "USD" || got[0].Value != 43 || got[0].Amount != 3000 || got[0].Count != 2 {
		t.Fatalf("USD slice = %+v, want value 43 amount 3000 count 2", got[0])
	}
	if got[1].Name != "IQD" || got[1].Value != 57 || got[1].Amount != 4000 || got[1].Count != 1 {
		t.Fatalf("IQD slice = %+v, want value 57 amount 4000 count 1", got[1])
	}
}

func TestCurrencyDistributionDefaultsAndZeroTotal(t *testing.T) {
	records := []core.Invoice{
		inv("Acme", "web", 0, "", engineNow),
		inv("Beta", "web", 0, "IQD", engineNow),
	}
	got := CurrencyDistribution(records)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != core.DefaultCurrency {
		t.Fatalf("blank currency grouped as %q, want %q", got[0].Name, core.DefaultCurrency)
	}
	for _, s := range got {
		if s.Value != 0 {
			t.Fatalf("zero total must report 0%%, got %+v", s)
		}
	}
}

func TestCurrencyDistributionPercentagesSumNear100(t *testing.T) {
	// Thirds round to 33 each; integer rounding may drift by up to one
	// point per slice, never more.
	records := []core.Invoice{
		inv("Acme", "web", 100, "USD", engineNow),
		inv("Basra Co", "design", 100, "IQD", engineNow),
		inv("Euro Co", "ads", 100, "EUR", engineNow),
	}
	got := CurrencyDistribution(records)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	sum := 0
	for _, s := range got {
		sum += s.Value
	}
	diff := 100 - sum
	if diff < 0 {
		diff = -diff
	}
	if diff > len(got) {
		t.Fatalf("percentages sum to %d, want within %d of 100", sum, len(got))
	}
}

func TestAggregatesAreDeterministic(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, 0, -30), End: engineNow}
	records := []core.Invoice{
		inv("Acme", "web development", 1200.5, "USD", engineNow.AddDate(0, 0, -1)),
		inv("Beta", "logo design", 330.25, "IQD", engineNow.AddDate(0, 0, -5)),
		inv("Acme", "strategy session", 75, "USD", engineNow.AddDate(0, 0, -5)),
		inv("Gamma", "ads", 990, "EUR", engineNow.AddDate(0, 0, -29)),
	}
	stats := ProcessingStats{SuccessRate: 95.5, AvgProcessingTime: 1.2}

	if a, b := ComputeKPIs(records, window, stats), ComputeKPIs(records, window, stats); !reflect.DeepEqual(a, b) {
		t.Fatalf("ComputeKPIs diverged: %+v vs %+v", a, b)
	}
	if a, b := RevenueTrend(records, window), RevenueTrend(records, window); !reflect.DeepEqual(a, b) {
		t.Fatalf("RevenueTrend diverged: %+v vs %+v", a, b)
	}
	if a, b := TopClients(records, 10), TopClients(records, 10); !reflect.DeepEqual(a, b) {
		t.Fatalf("TopClients diverged: %+v vs %+v", a, b)
	}
	if a, b := CurrencyDistribution(records), CurrencyDistribution(records); !reflect.DeepEqual(a, b) {
		t.Fatalf("CurrencyDistribution diverged: %+v vs %+v", a, b)
	}
	if a, b := CategoryDistribution(records), CategoryDistribution(records); !reflect.DeepEqual(a, b) {
		t.Fatalf("CategoryDistribution diverged: %+v vs %+v", a, b)
	}
	if a, b := RecentActivity(records, 10, engineNow), RecentActivity(records, 10, engineNow); !reflect.DeepEqual(a, b) {
		t.Fatalf("RecentActivity diverged: %+v vs %+v", a, b)
	}
}

func TestCategoryDistribution(t *testing.T) {
	records := []core.Invoice{
		inv("Acme", "logo design", 300, "USD", engineNow),
		inv("Beta", "web development", 900, "USD", engineNow),
		inv("Gamma", "strategy session", 300, "USD", engineNow),
	}
	got := CategoryDistribution(records)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Category != CategoryWebDevelopment || got[0].Revenue != 900 {
		t.Fatalf("got[0] = %+v, want Web Development 900", got[0])
	}
	// Design and Consulting tie at 300; Design appeared first.
	if got[1].Category != CategoryDesignServices || got[2].Category != CategoryConsulting {
		t.Fatalf("tie order = %q, %q; want Design Services then Consulting", got[1].Category, got[2].Category)
	}
}

func TestRecentActivity(t *testing.T) {
	records := []core.Invoice{
		inv("Acme", "web", 100, "USD", engineNow.Add(-30*time.Minute)),
		inv("Beta", "design", 200, "USD", engineNow.Add(-5*time.Minute)),
		inv("Gamma", "ads", 300, "USD", engineNow.Add(-239*time.Minute)),
		inv("Delta", "web", 400, "USD", engineNow.AddDate(0, 0, -3)),
	}
	got := RecentActivity(records, 3, engineNow)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Client != "Beta" || got[0].Time != "5 minutes ago" {
		t.Fatalf("got[0] = %+v, want Beta 5 minutes ago", got[0])
	}
	if got[1].Client != "Acme" || got[1].Time != "30 minutes ago" {
		t.Fatalf("got[1] = %+v, want Acme 30 minutes ago", got[1])
	}
	// 239 minutes floors to 3 hours.
	if got[2].Client != "Gamma" || got[2].Time != "3 hours ago" {
		t.Fatalf("got[2] = %+v, want Gamma 3 hours ago", got[2])
	}
	for _, a := range got {
		if a.Type != "invoice" {
			t.Fatalf("Type = %q, want invoice", a.Type)
		}
	}
}

func TestRecentActivityDoesNotMutateInput(t *testing.T) {
	records := []core.Invoice{
		inv("Old", "web", 1, "USD", engineNow.AddDate(0, 0, -5)),
		inv("New", "web", 2, "USD", engineNow),
	}
	RecentActivity(records, 10, engineNow)
	if records[0].Company != "Old" || records[1].Company != "New" {
		t.Fatalf("input reordered: %q, %q", records[0].Company, records[1].Company)
	}
}

func TestRecentActivityDaysLabel(t *testing.T) {
	records := []core.Invoice{
		inv("Acme", "web", 100, "USD", engineNow.AddDate(0, 0, -2)),
	}
	got := RecentActivity(records, 0, engineNow)
	if len(got) != 1 || got[0].Time != "2 days ago" {
		t.Fatalf("got = %+v, want one entry 2 days ago", got)
	}
}

func TestFilterWindow(t *testing.T) {
	window := core.DateWindow{Start: engineNow.AddDate(0, 0, -7), End: engineNow}
	records := []core.Invoice{
		inv("In", "web", 1, "USD", engineNow.AddDate(0, 0, -1)),
		inv("Boundary", "web", 2, "USD", window.Start),
		inv("Out", "web", 3, "USD", engineNow.AddDate(0, 0, -8)),
	}
	got := FilterWindow(records, window)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Company != "In" || got[1].Company != "Boundary" {
		t.Fatalf("order or contents wrong: %q, %q", got[0].Company, got[1].Company)
	}
}
