package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money keeps amounts as exact decimals to avoid floating point drift.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// Multiply scales the amount by factor without rounding.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

// Rounded returns the amount rounded to the currency's minor units.
func (m Money) Rounded() Money {
	return Money{Amount: m.Amount.Round(MinorUnits(m.Currency)), Currency: m.Currency}
}

// String renders the amount with the currency's minor units, e.g. "70.00".
func (m Money) String() string {
	return m.Amount.StringFixed(MinorUnits(m.Currency))
}

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
