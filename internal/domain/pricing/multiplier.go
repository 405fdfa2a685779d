package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	weekendPremium    = decimal.RequireFromString("1.5")
	midweekDiscount   = decimal.RequireFromString("0.7")
	saturdayPremium   = decimal.RequireFromString("1.25")
	neutralMultiplier = decimal.NewFromInt(1)
)

var weekendMarkets = map[string]struct{}{
	"paris":  {},
	"lisbon": {},
}

// saturdayExempt lists markets excluded from the generic Saturday premium.
// "francisco" is kept as-is, so san-francisco Saturdays still get 1.25.
var saturdayExempt = map[string]struct{}{
	"paris":     {},
	"lisbon":    {},
	"francisco": {},
}

// Multiplier returns the demand factor for a market on the given weekday.
// Rules are checked in order and the first match wins.
func Multiplier(market string, day time.Weekday) decimal.Decimal {
	if _, ok := weekendMarkets[market]; ok && (day == time.Saturday || day == time.Sunday) {
		return weekendPremium
	}
	if market == "san-francisco" && day == time.Wednesday {
		return midweekDiscount
	}
	if _, ok := saturdayExempt[market]; !ok && day == time.Saturday {
		return saturdayPremium
	}
	return neutralMultiplier
}
