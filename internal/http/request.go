package http

import (
	"net/http"
	"strings"
	"time"

	"invoicesense/internal/core"
)

// parseWindow resolves the range query parameters to a date window. Custom
// ranges take startDate/endDate; everything else goes through the presets
// with 30d as the fallback.
func parseWindow(r *http.Request, now time.Time) core.DateWindow {
	q := r.URL.Query()
	preset := strings.TrimSpace(q.Get("range"))
	if preset == "custom" {
		return core.ResolveCustomRange(preset, q.Get("startDate"), q.Get("endDate"), now)
	}
	return core.ResolveRange(preset, now)
}

// rangeKey builds a cache key component for the requested window.
func rangeKey(r *http.Request) string {
	q := r.URL.Query()
	preset := strings.TrimSpace(q.Get("range"))
	if preset == "" {
		preset = "30d"
	}
	if preset == "custom" {
		return preset + ":" + q.Get("startDate") + ":" + q.Get("endDate")
	}
	return preset
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
