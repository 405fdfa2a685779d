package dto

import (
	domainlistings "rentprice/internal/domain/listings"
	"rentprice/internal/domain/shared/money"
)

type Market struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
}

type Currency struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	MinorUnits int32  `json:"minor_units"`
}

func MapMarkets(items []domainlistings.Market) []Market {
	out := make([]Market, 0, len(items))
	for _, m := range items {
		out = append(out, Market{Code: m.Code, Name: m.Name, Country: m.Country, Currency: m.Currency})
	}
	return out
}

func MapCurrencies(items []money.Currency) []Currency {
	out := make([]Currency, 0, len(items))
	for _, c := range items {
		out = append(out, Currency{Code: c.Code, Name: c.Name, MinorUnits: c.MinorUnits})
	}
	return out
}
