package core

import (
	"testing"
	"time"
)

func TestPeriodAdvanceWraparound(t *testing.T) {
	tests := []struct {
		name      string
		start     Period
		direction int
		want      Period
	}{
		{"january back wraps year", Period{2025, 1}, -1, Period{2024, 12}},
		{"december forward wraps year", Period{2025, 12}, +1, Period{2026, 1}},
		{"mid-year forward", Period{2025, 6}, +1, Period{2025, 7}},
		{"mid-year back", Period{2025, 6}, -1, Period{2025, 5}},
		{"zero direction is identity", Period{2025, 6}, 0, Period{2025, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.Advance(tt.direction)
			if got != tt.want {
				t.Errorf("Advance(%d) = %v, want %v", tt.direction, got, tt.want)
			}
		})
	}
}

func TestPeriodAdvanceRoundTrip(t *testing.T) {
	p := Period{2025, 7}
	for i := 0; i < 24; i++ {
		p = p.Advance(+1)
	}
	if (p != Period{2027, 7}) {
		t.Fatalf("24 months forward from 2025-07 = %v, want 2027-07", p)
	}
	for i := 0; i < 24; i++ {
		p = p.Advance(-1)
	}
	if (p != Period{2025, 7}) {
		t.Fatalf("round trip did not return to origin, got %v", p)
	}
}

func TestPeriodOf(t *testing.T) {
	got := PeriodOf(time.Date(2026, time.February, 28, 23, 59, 0, 0, time.UTC))
	if (got != Period{2026, 2}) {
		t.Errorf("PeriodOf = %v, want 2026-02", got)
	}
}

func TestPeriodString(t *testing.T) {
	if s := (Period{2025, 3}).String(); s != "2025-03" {
		t.Errorf("String() = %q, want 2025-03", s)
	}
	if s := (Period{2025, 12}).Title(); s != "December 2025" {
		t.Errorf("Title() = %q, want December 2025", s)
	}
}
