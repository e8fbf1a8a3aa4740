// Package types provides common money and numeric input helpers.
package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// DisplayPlaces is the number of fractional digits shown for amounts.
const DisplayPlaces int32 = 2

// MustMoney parses s and panics on error. Use only for constants and tests.
func MustMoney(s string) Money {
	return decimal.RequireFromString(s)
}

// RoundDisplay rounds an amount half away from zero to DisplayPlaces.
func RoundDisplay(m Money) Money {
	return m.Round(DisplayPlaces)
}

// LenientDecimal is a permissive numeric input.
//
// It decodes a JSON number, a numeric string (Western or Arabic-Indic digits)
// or null. Anything else decodes to zero with Invalid set, so forms that send
// "" or "abc" for a price degrade to 0 instead of failing the request.
type LenientDecimal struct {
	Value   decimal.Decimal
	Present bool
	Invalid bool
}

// NewLenient wraps a known-good value.
func NewLenient(d decimal.Decimal) LenientDecimal {
	return LenientDecimal{Value: d, Present: true}
}

// Decimal returns the coerced value.
func (l LenientDecimal) Decimal() decimal.Decimal {
	return l.Value
}

// MarshalJSON encodes the coerced value as a decimal string.
func (l LenientDecimal) MarshalJSON() ([]byte, error) {
	return l.Value.MarshalJSON()
}

// UnmarshalJSON never fails on malformed numbers; it records them in Invalid.
func (l *LenientDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = LenientDecimal{Value: decimal.Zero}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	l.Present = true

	raw := string(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			l.Invalid = true
			return nil
		}
		raw = s
	}

	d, ok := ParseLenient(raw)
	if !ok {
		l.Invalid = true
		return nil
	}
	l.Value = d
	return nil
}

var digitNormalizer = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٫", ".", "٬", "", ",", "",
)

// Bounds on accepted numeric input. Amounts outside them are treated as
// invalid rather than carried into arithmetic.
const (
	MaxInputLength   = 64
	MaxInputDigits   = 38
	MaxInputExponent = 28
)

// ParseLenient parses a numeric string. Empty, non-numeric and out-of-range
// input returns (0, false).
func ParseLenient(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(digitNormalizer.Replace(s))
	if s == "" || len(s) > MaxInputLength {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > MaxInputExponent || exp < -MaxInputExponent {
		return decimal.Zero, false
	}
	if d.NumDigits() > MaxInputDigits {
		return decimal.Zero, false
	}
	return d, true
}

// CoerceNull converts a nullable database decimal to a value, treating NULL as zero.
func CoerceNull(n decimal.NullDecimal) (decimal.Decimal, bool) {
	if !n.Valid {
		return decimal.Zero, false
	}
	return n.Decimal, true
}
