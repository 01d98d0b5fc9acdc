// Package types holds value types shared by domain packages.
package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimals stored for financial totals,
// matching the numeric(18,2) columns.
const MoneyScale = 2

// Money is an exact decimal amount in RON.
type Money = decimal.Decimal

// ParseMoney parses a decimal amount and rounds it to MoneyScale.
// Surrounding whitespace is ignored.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse money %q: %w", s, err)
	}
	return RoundMoney(d), nil
}

// RoundMoney rounds half away from zero to MoneyScale decimals.
func RoundMoney(m Money) Money {
	return m.Round(MoneyScale)
}

// NewMoneyFromInt creates a Money value from a whole amount.
func NewMoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
}

// MustMoney parses s and panics on error. For constants and tests.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}
