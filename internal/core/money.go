// Package core holds the domain model shared by the API client, the
// aggregation view model and the HTTP shell.
//
// This file contains money parsing and formatting. Amounts are held as paise
// (hundredths of a rupee) in an int64 to avoid floating-point drift; the
// backend serializes them as decimal strings or numbers.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a user-entered decimal string to Money with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Only strictly positive amounts are valid; signs are rejected.
//
// Examples:
//
//	ParseAmount("12.34") -> 1234 paise, nil
//	ParseAmount("12,345") -> 1235 paise, nil (rounds up)
//	ParseAmount("-5") -> Money{}, ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	p, err := parseDecimal(s)
	if err != nil {
		return Money{}, err
	}
	if p <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Paise: p}, nil
}

// ParseSignedAmount parses a server-derived decimal that may be zero or
// negative (balances, budget differences).
func ParseSignedAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	p, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	if neg {
		p = -p
	}
	return p, nil
}

func parseDecimal(s string) (int64, error) {
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Guard the *100 below.
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// First two fractional digits, half-up rounding on the third.
	var fracPaise int64
	if len(fracPart) > 0 {
		fracPaise = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracPaise += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracPaise++
			}
		}
	}
	return iv*100 + fracPaise, nil
}

// Rupees returns the rupee value as a float64 for display purposes only.
// Calculations must stay in paise.
func (m Money) Rupees() float64 {
	return float64(m.Paise) / 100.0
}

// Decimal renders the amount as a plain decimal string ("1234.50", "-0.05"),
// the format the backend accepts in request bodies.
func (m Money) Decimal() string {
	p := m.Paise
	neg := p < 0
	if neg {
		p = -p
	}
	s := strconv.FormatInt(p/100, 10) + "." + pad2(p%100)
	if neg {
		return "-" + s
	}
	return s
}

// MarshalJSON serializes as a decimal string, matching the backend's
// DecimalField representation.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Decimal() + `"`), nil
}

// UnmarshalJSON accepts both quoted decimal strings and bare JSON numbers;
// the backend is not consistent across endpoints.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		m.Paise = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	p, err := ParseSignedAmount(s)
	if err != nil {
		return err
	}
	m.Paise = p
	return nil
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
