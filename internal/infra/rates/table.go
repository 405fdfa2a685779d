// Package rates supplies exchange rates from an openexchangerates-style API.
package rates

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainpricing "rentprice/internal/domain/pricing"
)

// Table holds rates quoted against a single base currency.
type Table struct {
	Base      string                     `json:"base"`
	Timestamp int64                      `json:"timestamp"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

// FetchedAt is the upstream publication time.
func (t Table) FetchedAt() time.Time {
	return time.Unix(t.Timestamp, 0).UTC()
}

// Convert returns amount * rates[to] / rates[from]. A missing or zero rate is
// reported as domainpricing.ErrRateUnavailable.
func (t Table) Convert(from, to string, amount decimal.Decimal) (decimal.Decimal, error) {
	fromRate, err := t.rate(from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := t.rate(to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(toRate).DivRound(fromRate, 16), nil
}

func (t Table) rate(code string) (decimal.Decimal, error) {
	if code == t.Base && t.Base != "" {
		if r, ok := t.Rates[code]; ok && r.IsPositive() {
			return r, nil
		}
		return decimal.NewFromInt(1), nil
	}
	r, ok := t.Rates[code]
	if !ok || !r.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", domainpricing.ErrRateUnavailable, code)
	}
	return r, nil
}
