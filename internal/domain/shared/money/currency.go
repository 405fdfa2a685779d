package money

import "sort"

// Currency describes an ISO 4217 entry known to the service.
type Currency struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	MinorUnits int32  `json:"minor_units"`
}

const defaultMinorUnits = 2

var registry = map[string]Currency{
	"AUD": {Code: "AUD", Name: "Australian Dollar", MinorUnits: 2},
	"BRL": {Code: "BRL", Name: "Brazilian Real", MinorUnits: 2},
	"CAD": {Code: "CAD", Name: "Canadian Dollar", MinorUnits: 2},
	"CHF": {Code: "CHF", Name: "Swiss Franc", MinorUnits: 2},
	"CNY": {Code: "CNY", Name: "Chinese Yuan", MinorUnits: 2},
	"DKK": {Code: "DKK", Name: "Danish Krone", MinorUnits: 2},
	"EUR": {Code: "EUR", Name: "Euro", MinorUnits: 2},
	"GBP": {Code: "GBP", Name: "British Pound", MinorUnits: 2},
	"JPY": {Code: "JPY", Name: "Japanese Yen", MinorUnits: 0},
	"MXN": {Code: "MXN", Name: "Mexican Peso", MinorUnits: 2},
	"NOK": {Code: "NOK", Name: "Norwegian Krone", MinorUnits: 2},
	"SEK": {Code: "SEK", Name: "Swedish Krona", MinorUnits: 2},
	"USD": {Code: "USD", Name: "US Dollar", MinorUnits: 2},
}

// LookupCurrency returns the registry entry for code.
func LookupCurrency(code string) (Currency, bool) {
	c, ok := registry[NormalizeCode(code)]
	return c, ok
}

// IsKnownCurrency reports whether code belongs to the registry.
func IsKnownCurrency(code string) bool {
	_, ok := LookupCurrency(code)
	return ok
}

// MinorUnits returns the number of decimal places used for code.
// Unknown codes fall back to two places.
func MinorUnits(code string) int32 {
	if c, ok := LookupCurrency(code); ok {
		return c.MinorUnits
	}
	return defaultMinorUnits
}

// Currencies lists the registry sorted by code.
func Currencies() []Currency {
	out := make([]Currency, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
