// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents. Decimal text only appears at the
// boundaries: request decoding, CSV cells and rendered reports.
package core

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var maxCents = decimal.NewFromInt(1<<63 - 1)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.344") -> 1234, nil (rounds down)
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			// signs and exponents are rejected too
			return 0, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return decimalToCents(d)
}

func decimalToCents(d decimal.Decimal) (int64, error) {
	c := d.Shift(2).Round(0)
	if c.GreaterThan(maxCents) || c.LessThan(maxCents.Neg()) {
		return 0, ErrInvalidAmount
	}
	cents := c.IntPart()
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseMoney is ParseDecimalToCents wrapped in a Money.
func ParseMoney(s string) (Money, error) {
	c, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: c}, nil
}

// Decimal returns the exact decimal value of m.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats m with exactly two decimals, e.g. "1000.00" or "-12.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Float64 returns the value as a float64 for renderers that need one.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// Add returns m + o.
func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

// Sub returns m - o.
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// Neg returns -m.
func (m Money) Neg() Money { return Money{Cents: -m.Cents} }

// IsZero reports whether m is zero.
func (m Money) IsZero() bool { return m.Cents == 0 }

// Validate checks that m is a strictly positive amount.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// MarshalJSON encodes m as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string. Values are
// rounded half-up to cents. Sign is preserved.
func (m *Money) UnmarshalJSON(b []byte) error {
	d, err := decodeDecimal(b)
	if err != nil {
		return err
	}
	c := d.Shift(2).Round(0)
	if c.GreaterThan(maxCents) || c.LessThan(maxCents.Neg()) {
		return ErrInvalidAmount
	}
	m.Cents = c.IntPart()
	return nil
}

func decodeDecimal(b []byte) (decimal.Decimal, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	s := string(b)
	if b[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return decimal.Decimal{}, ErrInvalidAmount
		}
		s = strings.ReplaceAll(strings.TrimSpace(unq), ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return d, nil
}

// parseRawAmount decodes a user supplied amount, which must be positive.
func parseRawAmount(raw json.RawMessage) (Money, error) {
	d, err := decodeDecimal(raw)
	if err != nil {
		return Money{}, err
	}
	if !d.IsPositive() {
		return Money{}, ErrInvalidAmount
	}
	c, err := decimalToCents(d)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: c}, nil
}
