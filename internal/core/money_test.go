package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12.344", 1234, false}, // below midpoint rounds down
		{"12.345", 1235, false}, // midpoint rounds up
		{"12.346", 1235, false},
		{"0.5", 50, false},
		{".5", 50, false},
		{"1000", 100000, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"0", 0, true},
		{"0.00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got.Paise != tt.want {
				t.Errorf("ParseAmount(%q) = %d paise, want %d", tt.in, got.Paise, tt.want)
			}
		})
	}
}

func TestParseSignedAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"-150.00", -15000, false},
		{"-0.05", -5, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"+12.50", 1250, false},
		{"1500", 150000, false},
		{"--1", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSignedAmount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSignedAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSignedAmount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	// Backend sends decimals as strings or bare numbers depending on the
	// endpoint; both must decode to the same paise value.
	var fromString, fromNumber Money
	if err := json.Unmarshal([]byte(`"1234.56"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if err := json.Unmarshal([]byte(`1234.56`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if fromString.Paise != 123456 || fromNumber.Paise != 123456 {
		t.Errorf("paise = %d / %d, want 123456", fromString.Paise, fromNumber.Paise)
	}

	var negative Money
	if err := json.Unmarshal([]byte(`"-300.00"`), &negative); err != nil {
		t.Fatalf("unmarshal negative: %v", err)
	}
	if negative.Paise != -30000 {
		t.Errorf("negative paise = %d, want -30000", negative.Paise)
	}

	out, err := json.Marshal(Money{Paise: 1250})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"12.50"` {
		t.Errorf("marshal = %s, want \"12.50\"", out)
	}
}

func TestMoneyDecimal(t *testing.T) {
	tests := []struct {
		paise int64
		want  string
	}{
		{1234, "12.34"},
		{-5, "-0.05"},
		{0, "0.00"},
		{100000, "1000.00"},
	}
	for _, tt := range tests {
		if got := (Money{Paise: tt.paise}).Decimal(); got != tt.want {
			t.Errorf("Decimal(%d) = %q, want %q", tt.paise, got, tt.want)
		}
	}
}
