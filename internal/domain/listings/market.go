package listings

import (
	"sort"
	"strings"
)

// Market is a city-level area where listings are offered.
type Market struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
}

var markets = map[string]Market{
	"amsterdam":      {Code: "amsterdam", Name: "Amsterdam", Country: "NL", Currency: "EUR"},
	"barcelona":      {Code: "barcelona", Name: "Barcelona", Country: "ES", Currency: "EUR"},
	"berlin":         {Code: "berlin", Name: "Berlin", Country: "DE", Currency: "EUR"},
	"lisbon":         {Code: "lisbon", Name: "Lisbon", Country: "PT", Currency: "EUR"},
	"london":         {Code: "london", Name: "London", Country: "GB", Currency: "GBP"},
	"mexico-city":    {Code: "mexico-city", Name: "Mexico City", Country: "MX", Currency: "MXN"},
	"new-york":       {Code: "new-york", Name: "New York", Country: "US", Currency: "USD"},
	"paris":          {Code: "paris", Name: "Paris", Country: "FR", Currency: "EUR"},
	"rio-de-janeiro": {Code: "rio-de-janeiro", Name: "Rio de Janeiro", Country: "BR", Currency: "BRL"},
	"rome":           {Code: "rome", Name: "Rome", Country: "IT", Currency: "EUR"},
	"san-francisco":  {Code: "san-francisco", Name: "San Francisco", Country: "US", Currency: "USD"},
	"tokyo":          {Code: "tokyo", Name: "Tokyo", Country: "JP", Currency: "JPY"},
	"toronto":        {Code: "toronto", Name: "Toronto", Country: "CA", Currency: "CAD"},
}

// NormalizeMarket trims and lower-cases a market code.
func NormalizeMarket(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// LookupMarket returns the registry entry for code.
func LookupMarket(code string) (Market, bool) {
	m, ok := markets[NormalizeMarket(code)]
	return m, ok
}

// Markets lists the registry sorted by code.
func Markets() []Market {
	out := make([]Market, 0, len(markets))
	for _, m := range markets {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
