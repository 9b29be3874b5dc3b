// Package analytics computes the dashboard aggregates: KPI summaries,
// revenue trends, rankings, breakdowns and reports.
//
// Every function here is a pure transformation over the records it is
// given: no I/O, no shared state, inputs are never mutated. Calls are safe
// to run concurrently. Failure handling is equally simple — malformed or
// missing data has already been coerced to zero values by the adapters, and
// empty inputs produce empty (never nil-dereferencing, never erroring)
// aggregates.
//
// One modeling caveat carried over from the dashboard this replaces:
// revenue totals sum amounts across currencies without FX conversion.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"invoicesense/internal/core"
)

// KPISummary carries the top-line dashboard numbers. Growth percentages
// compare the window against the immediately preceding period of equal
// length; a previous period with no data reports 0 growth.
type KPISummary struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalInvoices     int     `json:"totalInvoices"`
	TotalClients      int     `json:"totalClients"`
	SuccessRate       float64 `json:"successRate"`
	AvgProcessingTime float64 `json:"avgProcessingTime"`
	RevenueGrowth     float64 `json:"revenueGrowth"`
	InvoiceGrowth     float64 `json:"invoiceGrowth"`
	ClientGrowth      float64 `json:"clientGrowth"`
}

// ProcessingStats are supplied by the caller; the engine has no access to
// extraction logs and only passes these through.
type ProcessingStats struct {
	SuccessRate       float64
	AvgProcessingTime float64
}

// TrendPoint is one calendar day of the revenue trend.
type TrendPoint struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	Invoices int     `json:"invoices"`
}

// RankedClient is one entry of the top-clients ranking.
type RankedClient struct {
	Name     string  `json:"name"`
	Revenue  float64 `json:"revenue"`
	Invoices int     `json:"invoices"`
}

// CurrencySlice is one currency's share of total revenue. Value is a whole
// integer percentage — the dashboard chart expects integers here, unlike
// the two-decimal rounding used everywhere else.
type CurrencySlice struct {
	Name   string  `json:"name"`
	Value  int     `json:"value"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// CategorySlice is one category's revenue and invoice count.
type CategorySlice struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Revenue  float64  `json:"revenue"`
}

// Activity is one entry of the recent-activity feed.
type Activity struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Client string  `json:"client"`
	Amount float64 `json:"amount"`
	Time   string  `json:"time"`
}

const (
	DefaultTopClients     = 5
	DefaultRecentActivity = 10
)

// ComputeKPIs filters records to the window (inclusive on both ends) and
// derives revenue, invoice and distinct-client totals plus their growth
// against the previous period.
func ComputeKPIs(records []core.Invoice, window core.DateWindow, stats ProcessingStats) KPISummary {
	var revenue float64
	count := 0
	clients := map[string]struct{}{}
	for _, inv := range records {
		if !window.Contains(inv.Created) {
			continue
		}
		revenue += inv.Total
		count++
		clients[inv.ClientKey()] = struct{}{}
	}

	prev := window.Previous()
	var prevRevenue float64
	prevCount := 0
	prevClients := map[string]struct{}{}
	for _, inv := range records {
		if !prev.ContainsPrevious(inv.Created) {
			continue
		}
		prevRevenue += inv.Total
		prevCount++
		prevClients[inv.ClientKey()] = struct{}{}
	}

	return KPISummary{
		TotalRevenue:      revenue,
		TotalInvoices:     count,
		TotalClients:      len(clients),
		SuccessRate:       stats.SuccessRate,
		AvgProcessingTime: stats.AvgProcessingTime,
		RevenueGrowth:     GrowthPct(revenue, prevRevenue),
		InvoiceGrowth:     GrowthPct(float64(count), float64(prevCount)),
		ClientGrowth:      GrowthPct(float64(len(clients)), float64(len(prevClients))),
	}
}

// GrowthPct is the percentage change from previous to current, rounded to
// two decimals. A zero previous value reports 0: no prior data is
// indistinguishable from flat growth, a documented limitation.
func GrowthPct(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return core.Round2((current - previous) / previous * 100)
}

// RevenueTrend buckets records into one point per calendar day of the
// window, oldest first. Days without records emit zero points, so a window
// spanning N days always yields exactly N points.
func RevenueTrend(records []core.Invoice, window core.DateWindow) []TrendPoint {
	days := window.Days()
	points := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := window.Start.AddDate(0, 0, i)
		var revenue float64
		count := 0
		for _, inv := range records {
			if core.SameDay(inv.Created, day) {
				revenue += inv.Total
				count++
			}
		}
		points = append(points, TrendPoint{
			Date:     core.ISODate(day),
			Revenue:  core.Round2(revenue),
			Invoices: count,
		})
	}
	return points
}

// TopClients ranks clients by summed revenue over whatever record set the
// caller passes (callers decide whether to window-filter first). The sort
// is stable: equal-revenue groups keep the order in which they first
// appeared in the input. limit <= 0 means the default of 5.
func TopClients(records []core.Invoice, limit int) []RankedClient {
	if limit <= 0 {
		limit = DefaultTopClients
	}
	index := map[string]int{}
	ranked := make([]RankedClient, 0)
	for _, inv := range records {
		i, ok := index[inv.Company]
		if !ok {
			i = len(ranked)
			index[inv.Company] = i
			ranked = append(ranked, RankedClient{Name: inv.Company})
		}
		ranked[i].Revenue += inv.Total
		ranked[i].Invoices++
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue > ranked[j].Revenue
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Revenue = core.Round2(ranked[i].Revenue)
	}
	return ranked
}

// CurrencyDistribution groups records by currency and expresses each
// group's amount as an integer percentage of the combined total. Amounts
// are summed across currencies without conversion. A zero combined total
// reports 0 for every percentage.
func CurrencyDistribution(records []core.Invoice) []CurrencySlice {
	index := map[string]int{}
	slices := make([]CurrencySlice, 0)
	var total float64
	for _, inv := range records {
		currency := inv.Currency
		if currency == "" {
			currency = core.DefaultCurrency
		}
		i, ok := index[currency]
		if !ok {
			i = len(slices)
			index[currency] = i
			slices = append(slices, CurrencySlice{Name: currency})
		}
		slices[i].Amount += inv.Total
		slices[i].Count++
		total += inv.Total
	}
	for i := range slices {
		if total > 0 {
			slices[i].Value = int(core.Round0(slices[i].Amount / total * 100))
		}
		slices[i].Amount = core.Round2(slices[i].Amount)
	}
	return slices
}

// CategoryDistribution buckets records by inferred category and sorts the
// result by revenue, descending. Ties keep first-seen category order.
func CategoryDistribution(records []core.Invoice) []CategorySlice {
	index := map[Category]int{}
	slices := make([]CategorySlice, 0)
	for _, inv := range records {
		cat := Categorize(inv.Description)
		i, ok := index[cat]
		if !ok {
			i = len(slices)
			index[cat] = i
			slices = append(slices, CategorySlice{Category: cat})
		}
		slices[i].Count++
		slices[i].Revenue += inv.Total
	}
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Revenue > slices[j].Revenue
	})
	for i := range slices {
		slices[i].Revenue = core.Round2(slices[i].Revenue)
	}
	return slices
}

// RecentActivity lists the newest records with a human relative-time label
// computed against now. Labels use floor division: 3h59m reads "3 hours
// ago". limit <= 0 means the default of 10. The input slice is not
// reordered; sorting happens on a copy.
func RecentActivity(records []core.Invoice, limit int, now time.Time) []Activity {
	if limit <= 0 {
		limit = DefaultRecentActivity
	}
	sorted := make([]core.Invoice, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Created.After(sorted[j].Created)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]Activity, 0, len(sorted))
	for _, inv := range sorted {
		out = append(out, Activity{
			ID:     inv.ID,
			Type:   "invoice",
			Client: inv.Company,
			Amount: inv.Total,
			Time:   relativeTime(now.Sub(inv.Created)),
		})
	}
	return out
}

func relativeTime(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%d hours ago", minutes/60)
	default:
		return fmt.Sprintf("%d days ago", minutes/1440)
	}
}

// FilterWindow returns the records whose Created timestamp falls inside
// the window, preserving input order.
func FilterWindow(records []core.Invoice, window core.DateWindow) []core.Invoice {
	out := make([]core.Invoice, 0, len(records))
	for _, inv := range records {
		if window.Contains(inv.Created) {
			out = append(out, inv)
		}
	}
	return out
}
