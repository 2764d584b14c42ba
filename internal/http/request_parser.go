// Request parsing helpers shared by the handlers: period extraction with
// clock defaults, form sanitization, and id parsing.
package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"kharcha/internal/core"
)

// ParsePeriod extracts year and month from query or form values, defaulting
// to the period containing now. An out-of-range month falls back to the
// current one.
func ParsePeriod(values url.Values, now time.Time) core.Period {
	p := core.PeriodOf(now)

	if v := strings.TrimSpace(values.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			p.Year = y
		}
	}
	if v := strings.TrimSpace(values.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			p.Month = m
		}
	}
	if !p.Valid() {
		p.Month = int(now.Month())
	}
	return p
}

// ParseID parses a positive numeric path parameter.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// SanitizeInput trims whitespace and strips control characters except tab,
// newline and carriage return.
func SanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// ParseRecurrence reads the is_recurring checkbox and recurrence_day field.
func ParseRecurrence(values url.Values) (bool, int) {
	recurring := values.Get("is_recurring") == "on" || values.Get("is_recurring") == "true"
	if !recurring {
		return false, 0
	}
	day, err := strconv.Atoi(strings.TrimSpace(values.Get("recurrence_day")))
	if err != nil {
		return true, 0
	}
	return true, day
}
