// Package pricing builds per-day price calendars for listings.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rentprice/internal/domain/listings"
	"rentprice/internal/domain/shared/daterange"
	"rentprice/internal/domain/shared/money"
)

var (
	ErrRateUnavailable = errors.New("pricing: exchange rate unavailable")
	ErrListingMissing  = errors.New("pricing: listing missing")
)

// DefaultRateTimeout bounds a single conversion call when Generator.Timeout is unset.
const DefaultRateTimeout = 5 * time.Second

// RateProvider converts an amount between two currencies.
type RateProvider interface {
	Convert(ctx context.Context, from, to string, amount decimal.Decimal) (decimal.Decimal, error)
}

// DayPrice is the price of a listing on one calendar day.
type DayPrice struct {
	Date  time.Time
	Price money.Money
}

// Generator produces month calendars. It holds no state between calls.
type Generator struct {
	Rates   RateProvider
	Timeout time.Duration
	Now     func() time.Time
}

// Generate returns one entry per day of the month containing ref, in ascending
// order. An empty target keeps the listing's own currency. A zero ref means today.
// Conversion happens at most once per call and any failure aborts the whole month.
func (g *Generator) Generate(ctx context.Context, listing *listings.Listing, target string, ref time.Time) ([]DayPrice, error) {
	if listing == nil {
		return nil, ErrListingMissing
	}
	if ref.IsZero() {
		ref = g.now()
	}

	currency := money.NormalizeCode(listing.Currency)
	target = money.NormalizeCode(target)
	if target == "" {
		target = currency
	}

	base, err := g.baseIn(ctx, listing, currency, target)
	if err != nil {
		return nil, err
	}

	days := daterange.Month(ref).Days()
	out := make([]DayPrice, 0, len(days))
	for _, day := range days {
		price := money.Money{Amount: base, Currency: target}.
			Multiply(Multiplier(listing.Market, day.Weekday())).
			Rounded()
		out = append(out, DayPrice{Date: day, Price: price})
	}
	return out, nil
}

func (g *Generator) baseIn(ctx context.Context, listing *listings.Listing, from, to string) (decimal.Decimal, error) {
	base := decimal.NewFromInt(listing.BasePrice)
	if from == to {
		return base, nil
	}
	if g.Rates == nil {
		return decimal.Zero, fmt.Errorf("%w: no rate provider configured", ErrRateUnavailable)
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultRateTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	converted, err := g.Rates.Convert(callCtx, from, to, base)
	if err != nil {
		if errors.Is(err, ErrRateUnavailable) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("%w: %s->%s: %w", ErrRateUnavailable, from, to, err)
	}
	return converted, nil
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now().UTC()
}
