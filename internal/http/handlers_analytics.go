package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"invoicesense/internal/analytics"
	"invoicesense/internal/core"
)

// dashboardPayload is the analytics endpoint response body.
type dashboardPayload struct {
	analytics.KPISummary
	RevenueTrend         []analytics.TrendPoint    `json:"revenueTrend"`
	TopClients           []analytics.RankedClient  `json:"topClients"`
	CurrencyDistribution []analytics.CurrencySlice `json:"currencyDistribution"`
	CategoryDistribution []analytics.CategorySlice `json:"categoryDistribution"`
	RecentActivity       []analytics.Activity      `json:"recentActivity"`
	DateRange            dateRangePayload          `json:"dateRange"`
}

type dateRangePayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Range string `json:"range"`
}

// handleAnalytics serves the dashboard metrics for the requested window.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	key := "analytics:" + rangeKey(r)
	if payload, ok := s.payloadCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Analytics cache hit", "key", key)
		writeRawJSON(w, http.StatusOK, payload)
		return
	}

	now := time.Now()
	window := parseWindow(r, now)

	records, err := s.invSource.ListInvoices(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List invoices error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load invoice records")
		return
	}

	windowed := analytics.FilterWindow(records, window)
	stats := processingStats(windowed)

	// KPIs and the trend are windowed; rankings, breakdowns and the
	// activity feed run over the full history and do not move with the
	// range parameter.
	payload := dashboardPayload{
		KPISummary:           analytics.ComputeKPIs(records, window, stats),
		RevenueTrend:         analytics.RevenueTrend(records, window),
		TopClients:           analytics.TopClients(records, analytics.DefaultTopClients),
		CurrencyDistribution: analytics.CurrencyDistribution(records),
		CategoryDistribution: analytics.CategoryDistribution(records),
		RecentActivity:       analytics.RecentActivity(records, analytics.DefaultRecentActivity, now),
		DateRange: dateRangePayload{
			Start: core.ISODate(window.Start),
			End:   core.ISODate(window.End),
			Range: rangeKey(r),
		},
	}

	encoded, err := json.Marshal(envelope{Success: true, Data: payload})
	if err != nil {
		slog.ErrorContext(r.Context(), "Encode analytics payload error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to encode analytics")
		return
	}

	s.payloadCache.Set(key, encoded)
	writeRawJSON(w, http.StatusOK, encoded)
}

// processingStats derives success rate and average extraction time from the
// windowed records.
func processingStats(records []core.Invoice) analytics.ProcessingStats {
	if len(records) == 0 {
		return analytics.ProcessingStats{}
	}

	processed := 0
	var totalTime float64
	timed := 0
	for _, inv := range records {
		status := strings.ToLower(inv.Status)
		if !strings.Contains(status, "fail") && !strings.Contains(status, "error") {
			processed++
		}
		if inv.ProcessingTime > 0 {
			totalTime += inv.ProcessingTime
			timed++
		}
	}

	stats := analytics.ProcessingStats{
		SuccessRate: core.Round2(float64(processed) / float64(len(records)) * 100),
	}
	if timed > 0 {
		stats.AvgProcessingTime = core.Round2(totalTime / float64(timed))
	}
	return stats
}
