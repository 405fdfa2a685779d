package filter

import (
	"github.com/shopspring/decimal"

	"rentprice/internal/domain/listings"
)

var textFields = map[Field]func(*listings.Listing) string{
	FieldMarket:   func(l *listings.Listing) string { return l.Market },
	FieldCurrency: func(l *listings.Listing) string { return l.Currency },
}

var numericFields = map[Field]func(*listings.Listing) decimal.Decimal{
	FieldBasePrice: func(l *listings.Listing) decimal.Decimal { return decimal.NewFromInt(l.BasePrice) },
}

// Matches reports whether listing satisfies every constraint in c.
func Matches(listing *listings.Listing, c Criteria) bool {
	if listing == nil {
		return false
	}
	for _, cons := range c.constraints {
		if !matchConstraint(listing, cons) {
			return false
		}
	}
	return true
}

// Apply returns the listings matching c, preserving input order.
func Apply(items []*listings.Listing, c Criteria) []*listings.Listing {
	out := make([]*listings.Listing, 0, len(items))
	for _, l := range items {
		if Matches(l, c) {
			out = append(out, l)
		}
	}
	return out
}

func matchConstraint(l *listings.Listing, c Constraint) bool {
	if get, ok := numericFields[c.Field]; ok {
		return compareNumber(c.Operator, get(l), c.Number)
	}
	if get, ok := textFields[c.Field]; ok {
		return compareText(c.Operator, get(l), c.Values)
	}
	return false
}
