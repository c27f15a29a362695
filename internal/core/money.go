// Package core holds the ledger entities and the money representation.
//
// Monetary values are stored as integer cents so that "rounded to two
// decimal places" is structural rather than a property each call site has
// to re-establish. Presentation converts back to decimal values.
package core

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money is a monetary value in cents.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal amount (as received in a JSON body) to
// cents, rounding anything past the second decimal place. Amounts must
// be strictly positive; the sign of a transaction is implied by its type,
// never by the amount.
func ParseAmount(v float64) (Money, error) {
	cents := decimal.NewFromFloat(v).Round(2).Mul(hundred).IntPart()
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// ParseSignedAmount is ParseAmount without the positivity requirement,
// used for CSV rows where the sign carries the income/expense split.
func ParseSignedAmount(s string) (Money, error) {
	d, err := decimal.NewFromString(normalizeDecimal(s))
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Round(2).Mul(hundred).IntPart()}, nil
}

func normalizeDecimal(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ',':
			out = append(out, '.')
		case ' ', '$', '\t':
			// strip currency and grouping noise
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Float64 returns the 2-decimal value for JSON presentation.
func (m Money) Float64() float64 {
	f, _ := decimal.New(m.Cents, -2).Float64()
	return f
}

// Decimal returns the value as a decimal for further arithmetic.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Neg() Money        { return Money{Cents: -m.Cents} }

func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

func (m Money) IsZero() bool { return m.Cents == 0 }
