package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"invoicesense/internal/core"
)

// RevenueReport is the detailed revenue view of the reporting surface.
type RevenueReport struct {
	Summary           RevenueSummary      `json:"summary"`
	DailyBreakdown    []TrendPoint        `json:"dailyBreakdown"`
	TopClients        []RankedClient      `json:"topClients"`
	CurrencyBreakdown []CurrencyBreakdown `json:"currencyBreakdown"`
}

type RevenueSummary struct {
	TotalRevenue float64 `json:"totalRevenue"`
	AverageDaily float64 `json:"averageDaily"`
	HighestDay   float64 `json:"highestDay"`
	LowestDay    float64 `json:"lowestDay"`
	GrowthRate   float64 `json:"growthRate"`
	Period       string  `json:"period"`
	InvoiceCount int     `json:"invoiceCount"`
}

// CurrencyBreakdown is the reporting variant of a currency share. Unlike
// the dashboard's CurrencySlice it keeps two decimals on the percentage.
type CurrencyBreakdown struct {
	Currency   string  `json:"currency"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// ClientReport summarizes the client roster with revenue rollups.
type ClientReport struct {
	Summary       ClientSummary  `json:"summary"`
	ClientList    []ClientRollup `json:"clientList"`
	TopPerformers []TopPerformer `json:"topPerformers"`
}

type ClientSummary struct {
	TotalClients   int     `json:"totalClients"`
	ActiveClients  int     `json:"activeClients"`
	NewClients     int     `json:"newClients"`
	ChurnRate      float64 `json:"churnRate"`
	AverageRevenue float64 `json:"averageRevenue"`
}

type ClientRollup struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Revenue     float64 `json:"revenue"`
	Invoices    int     `json:"invoices"`
	Status      string  `json:"status"`
	JoinDate    string  `json:"joinDate"`
	LastInvoice string  `json:"lastInvoice,omitempty"`
}

type TopPerformer struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Growth  float64 `json:"growth"`
}

// InvoiceReport summarizes processing outcomes and categories.
type InvoiceReport struct {
	Summary           InvoiceSummary    `json:"summary"`
	StatusBreakdown   []StatusBreakdown `json:"statusBreakdown"`
	CategoryBreakdown []CategorySlice   `json:"categoryBreakdown"`
	MonthlyTrend      []MonthPoint      `json:"monthlyTrend"`
}

type InvoiceSummary struct {
	TotalInvoices         int     `json:"totalInvoices"`
	SuccessfulProcessing  int     `json:"successfulProcessing"`
	FailedProcessing      int     `json:"failedProcessing"`
	AverageProcessingTime float64 `json:"averageProcessingTime"`
	AverageValue          float64 `json:"averageValue"`
	TotalValue            float64 `json:"totalValue"`
}

type StatusBreakdown struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type MonthPoint struct {
	Month    string  `json:"month"`
	Invoices int     `json:"invoices"`
	Revenue  float64 `json:"revenue"`
}

// Summary is the combined analytics report assembled from the three
// individual reports.
type Summary struct {
	Summary  SummaryHead     `json:"summary"`
	Revenue  SummaryRevenue  `json:"revenue"`
	Clients  SummaryClients  `json:"clients"`
	Invoices SummaryInvoices `json:"invoices"`
}

type SummaryHead struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	TotalInvoices       int     `json:"totalInvoices"`
	TotalClients        int     `json:"totalClients"`
	SuccessRate         float64 `json:"successRate"`
	AverageInvoiceValue float64 `json:"averageInvoiceValue"`
	Period              string  `json:"period"`
}

type SummaryRevenue struct {
	Trend      []TrendPoint   `json:"trend"`
	TopClients []RankedClient `json:"topClients"`
}

type SummaryClients struct {
	ActiveClients int     `json:"activeClients"`
	NewClients    int     `json:"newClients"`
	ChurnRate     float64 `json:"churnRate"`
}

type SummaryInvoices struct {
	SuccessRate float64         `json:"successRate"`
	Categories  []CategorySlice `json:"categories"`
}

// BuildRevenueReport computes the revenue report over the window.
func BuildRevenueReport(records []core.Invoice, window core.DateWindow) RevenueReport {
	filtered := FilterWindow(records, window)

	var total float64
	daily := map[string]*TrendPoint{}
	order := []string{}
	for _, inv := range filtered {
		total += inv.Total
		date := core.ISODate(inv.Created)
		p, ok := daily[date]
		if !ok {
			p = &TrendPoint{Date: date}
			daily[date] = p
			order = append(order, date)
		}
		p.Revenue += inv.Total
		p.Invoices++
	}

	days := window.Days()
	var averageDaily float64
	if days > 0 {
		averageDaily = total / float64(days)
	}
	// Highest/lowest are taken over days that actually have records; a
	// window with no records reports 0 for both.
	var highest, lowest float64
	for i, date := range order {
		rev := daily[date].Revenue
		if i == 0 || rev > highest {
			highest = rev
		}
		if i == 0 || rev < lowest {
			lowest = rev
		}
	}

	breakdown := make([]TrendPoint, 0, len(order))
	for _, date := range order {
		p := daily[date]
		breakdown = append(breakdown, TrendPoint{Date: p.Date, Revenue: core.Round2(p.Revenue), Invoices: p.Invoices})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Date > breakdown[j].Date
	})
	if len(breakdown) > 30 {
		breakdown = breakdown[:30]
	}

	prev := window.Previous()
	var prevTotal float64
	for _, inv := range records {
		if prev.ContainsPrevious(inv.Created) {
			prevTotal += inv.Total
		}
	}

	return RevenueReport{
		Summary: RevenueSummary{
			TotalRevenue: core.Round2(total),
			AverageDaily: core.Round2(averageDaily),
			HighestDay:   core.Round2(highest),
			LowestDay:    core.Round2(lowest),
			GrowthRate:   GrowthPct(total, prevTotal),
			Period:       fmt.Sprintf("%d days", days),
			InvoiceCount: len(filtered),
		},
		DailyBreakdown:    breakdown,
		TopClients:        TopClients(filtered, 10),
		CurrencyBreakdown: currencyBreakdown(filtered),
	}
}

// currencyBreakdown is the two-decimal reporting variant, sorted by amount
// descending.
func currencyBreakdown(records []core.Invoice) []CurrencyBreakdown {
	index := map[string]int{}
	out := make([]CurrencyBreakdown, 0)
	var total float64
	for _, inv := range records {
		currency := inv.Currency
		if currency == "" {
			currency = core.DefaultCurrency
		}
		i, ok := index[currency]
		if !ok {
			i = len(out)
			index[currency] = i
			out = append(out, CurrencyBreakdown{Currency: currency})
		}
		out[i].Amount += inv.Total
		total += inv.Total
	}
	for i := range out {
		if total > 0 {
			out[i].Percentage = core.Round2(out[i].Amount / total * 100)
		}
		out[i].Amount = core.Round2(out[i].Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// BuildClientReport joins the client roster against the full invoice set,
// matching by client ID or by company name when no stable ID exists.
// Per-client growth compares the window against its previous period.
func BuildClientReport(clients []core.Client, records []core.Invoice, window core.DateWindow) ClientReport {
	list := make([]ClientRollup, 0, len(clients))
	performers := make([]TopPerformer, 0, len(clients))
	var totalRevenue float64
	active := 0
	newClients := 0
	prev := window.Previous()

	for _, c := range clients {
		var revenue, windowRevenue, prevRevenue float64
		invoices := 0
		var last time.Time
		for _, inv := range records {
			if !c.Matches(inv) {
				continue
			}
			revenue += inv.Total
			invoices++
			if inv.Created.After(last) {
				last = inv.Created
			}
			if window.Contains(inv.Created) {
				windowRevenue += inv.Total
			}
			if prev.ContainsPrevious(inv.Created) {
				prevRevenue += inv.Total
			}
		}
		totalRevenue += revenue

		status := c.Status
		if status == "" {
			status = core.StatusActive
		}
		if status == core.StatusActive {
			active++
		}
		if !c.JoinDate.IsZero() && window.Contains(c.JoinDate) {
			newClients++
		}

		rollup := ClientRollup{
			ID:       c.ID,
			Name:     c.Name,
			Email:    c.Email,
			Revenue:  core.Round2(revenue),
			Invoices: invoices,
			Status:   status,
		}
		if !c.JoinDate.IsZero() {
			rollup.JoinDate = core.ISODate(c.JoinDate)
		}
		if !last.IsZero() {
			rollup.LastInvoice = core.ISODate(last)
		}
		list = append(list, rollup)
		performers = append(performers, TopPerformer{
			Name:    c.Name,
			Revenue: core.Round2(revenue),
			Growth:  GrowthPct(windowRevenue, prevRevenue),
		})
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].Revenue > list[j].Revenue })
	sort.SliceStable(performers, func(i, j int) bool { return performers[i].Revenue > performers[j].Revenue })
	if len(performers) > 10 {
		performers = performers[:10]
	}

	var averageRevenue, churn float64
	if len(clients) > 0 {
		averageRevenue = totalRevenue / float64(len(clients))
		churn = core.Round2((1 - float64(active)/float64(len(clients))) * 100)
	}

	return ClientReport{
		Summary: ClientSummary{
			TotalClients:   len(clients),
			ActiveClients:  active,
			NewClients:     newClients,
			ChurnRate:      churn,
			AverageRevenue: core.Round2(averageRevenue),
		},
		ClientList:    list,
		TopPerformers: performers,
	}
}

// BuildInvoiceReport computes processing outcomes, categories and the
// month-by-month trend over the window.
func BuildInvoiceReport(records []core.Invoice, window core.DateWindow) InvoiceReport {
	filtered := FilterWindow(records, window)

	var totalValue, processingTime float64
	processed, failed, timed := 0, 0, 0
	months := map[string]*MonthPoint{}
	monthOrder := []string{}
	for _, inv := range filtered {
		totalValue += inv.Total
		status := strings.ToLower(inv.Status)
		if strings.Contains(status, "fail") || strings.Contains(status, "error") {
			failed++
		} else {
			processed++
		}
		if inv.ProcessingTime > 0 {
			processingTime += inv.ProcessingTime
			timed++
		}
		key := inv.Created.Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &MonthPoint{Month: inv.Created.Format("January 2006")}
			months[key] = m
			monthOrder = append(monthOrder, key)
		}
		m.Invoices++
		m.Revenue += inv.Total
	}

	total := len(filtered)
	var avgValue, avgTime float64
	if total > 0 {
		avgValue = totalValue / float64(total)
	}
	if timed > 0 {
		avgTime = processingTime / float64(timed)
	}

	status := []StatusBreakdown{
		{Status: core.StatusProcessed, Count: processed},
		{Status: core.StatusFailed, Count: failed},
	}
	if total > 0 {
		status[0].Percentage = core.Round2(float64(processed) / float64(total) * 100)
		status[1].Percentage = core.Round2(float64(failed) / float64(total) * 100)
	}

	sort.Strings(monthOrder)
	// Newest month first.
	trend := make([]MonthPoint, 0, len(monthOrder))
	for i := len(monthOrder) - 1; i >= 0; i-- {
		m := months[monthOrder[i]]
		trend = append(trend, MonthPoint{Month: m.Month, Invoices: m.Invoices, Revenue: core.Round2(m.Revenue)})
	}

	return InvoiceReport{
		Summary: InvoiceSummary{
			TotalInvoices:         total,
			SuccessfulProcessing:  processed,
			FailedProcessing:      failed,
			AverageProcessingTime: core.Round2(avgTime),
			AverageValue:          core.Round2(avgValue),
			TotalValue:            core.Round2(totalValue),
		},
		StatusBreakdown:   status,
		CategoryBreakdown: CategoryDistribution(filtered),
		MonthlyTrend:      trend,
	}
}

// BuildSummary assembles the combined analytics report. The three
// sub-reports are independent, so they are computed concurrently.
func BuildSummary(ctx context.Context, clients []core.Client, records []core.Invoice, window core.DateWindow) (Summary, error) {
	var (
		revenue RevenueReport
		client  ClientReport
		invoice InvoiceReport
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		revenue = BuildRevenueReport(records, window)
		return nil
	})
	g.Go(func() error {
		client = BuildClientReport(clients, records, window)
		return nil
	})
	g.Go(func() error {
		invoice = BuildInvoiceReport(records, window)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var successRate float64
	if invoice.Summary.TotalInvoices > 0 {
		successRate = core.Round2(float64(invoice.Summary.SuccessfulProcessing) / float64(invoice.Summary.TotalInvoices) * 100)
	}

	trend := revenue.DailyBreakdown
	if len(trend) > 7 {
		trend = trend[:7]
	}
	topClients := revenue.TopClients
	if len(topClients) > 5 {
		topClients = topClients[:5]
	}
	categories := invoice.CategoryBreakdown
	if len(categories) > 5 {
		categories = categories[:5]
	}

	return Summary{
		Summary: SummaryHead{
			TotalRevenue:        revenue.Summary.TotalRevenue,
			TotalInvoices:       invoice.Summary.TotalInvoices,
			TotalClients:        client.Summary.TotalClients,
			SuccessRate:         successRate,
			AverageInvoiceValue: invoice.Summary.AverageValue,
			Period:              revenue.Summary.Period,
		},
		Revenue: SummaryRevenue{Trend: trend, TopClients: topClients},
		Clients: SummaryClients{
			ActiveClients: client.Summary.ActiveClients,
			NewClients:    client.Summary.NewClients,
			ChurnRate:     client.Summary.ChurnRate,
		},
		Invoices: SummaryInvoices{SuccessRate: successRate, Categories: categories},
	}, nil
}
