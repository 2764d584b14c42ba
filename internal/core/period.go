package core

import (
	"fmt"
	"time"
)

// Period identifies the (year, month) reporting window selected for dashboard
// viewing. It is pure state: navigation produces a new value, I/O happens
// elsewhere.
type Period struct {
	Year  int
	Month int // 1-12
}

// PeriodOf returns the period containing the given instant.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Advance moves the period by direction months (+1 or -1), wrapping the year
// at the month boundaries. Any year is accepted; there are no bounds beyond
// integer wraparound.
func (p Period) Advance(direction int) Period {
	switch {
	case direction > 0:
		if p.Month == 12 {
			return Period{Year: p.Year + 1, Month: 1}
		}
		return Period{Year: p.Year, Month: p.Month + 1}
	case direction < 0:
		if p.Month == 1 {
			return Period{Year: p.Year - 1, Month: 12}
		}
		return Period{Year: p.Year, Month: p.Month - 1}
	default:
		return p
	}
}

func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12
}

// String renders the canonical "YYYY-MM" form used for logging and cache keys.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Title renders the period for display, e.g. "July 2025".
func (p Period) Title() string {
	if !p.Valid() {
		return p.String()
	}
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}
