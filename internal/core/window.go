package core

import (
	"time"
)

// DateWindow is the date range over which aggregates are computed.
//
// Containment is inclusive on both ends. That matches the store queries the
// dashboard has always used; an instant falling exactly on a boundary is
// counted in both of two adjacent windows. Changing this to half-open
// semantics would silently alter historical growth figures, so it stays.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the window, boundaries included.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the window length in whole days, rounded up.
func (w DateWindow) Days() int {
	d := w.End.Sub(w.Start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Previous returns the immediately preceding window of equal length.
// Records are counted in the previous period when >= Start and < End,
// so the shared boundary instant belongs to the current window there.
func (w DateWindow) Previous() DateWindow {
	return DateWindow{
		Start: w.Start.AddDate(0, 0, -w.Days()),
		End:   w.Start,
	}
}

// ContainsPrevious implements the half-open comparison used for the
// preceding period when computing growth: >= Start and strictly < End.
func (w DateWindow) ContainsPrevious(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// SameDay reports whether two instants fall on the same calendar date.
// Trend bucketing compares dates only, never the time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ResolveRange maps a range preset to a concrete window ending at now.
// Supported presets: "7d", "30d", "90d", "1y", "mtd", "ytd". Anything
// else (including the empty string) falls back to the 30 day default.
func ResolveRange(preset string, now time.Time) DateWindow {
	start := now
	switch preset {
	case "7d":
		start = now.AddDate(0, 0, -7)
	case "30d":
		start = now.AddDate(0, 0, -30)
	case "90d":
		start = now.AddDate(0, 0, -90)
	case "1y":
		start = now.AddDate(-1, 0, 0)
	case "mtd":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case "ytd":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		start = now.AddDate(0, 0, -30)
	}
	return DateWindow{Start: start, End: now}
}

// ResolveCustomRange resolves a window from explicit bounds when the preset
// is "custom" and both bounds parse; otherwise it defers to ResolveRange.
func ResolveCustomRange(preset, startStr, endStr string, now time.Time) DateWindow {
	if preset == "custom" && startStr != "" && endStr != "" {
		start, errS := ParseTimestamp(startStr)
		end, errE := ParseTimestamp(endStr)
		if errS == nil && errE == nil {
			return DateWindow{Start: start, End: end}
		}
	}
	return ResolveRange(preset, now)
}

// ParseTimestamp accepts the timestamp shapes the store produces: RFC 3339
// with or without sub-second precision, or a bare ISO date.
func ParseTimestamp(s string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ISODate renders a timestamp as the ISO-8601 date string used in trend
// points and exports.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
