package catalog

import (
	"context"

	"rentprice/internal/app/dto"
	"rentprice/internal/app/queries"
	domainlistings "rentprice/internal/domain/listings"
	"rentprice/internal/domain/shared/money"
)

const (
	listMarketsKey    = "markets.list"
	listCurrenciesKey = "currencies.list"
)

type ListMarketsQuery struct{}

func (ListMarketsQuery) Key() string { return listMarketsKey }

type ListCurrenciesQuery struct{}

func (ListCurrenciesQuery) Key() string { return listCurrenciesKey }

// MarketsHandler serves the static market registry.
var MarketsHandler = queries.HandlerFunc[ListMarketsQuery, []dto.Market](
	func(context.Context, ListMarketsQuery) ([]dto.Market, error) {
		return dto.MapMarkets(domainlistings.Markets()), nil
	},
)

// CurrenciesHandler serves the static currency registry.
var CurrenciesHandler = queries.HandlerFunc[ListCurrenciesQuery, []dto.Currency](
	func(context.Context, ListCurrenciesQuery) ([]dto.Currency, error) {
		return dto.MapCurrencies(money.Currencies()), nil
	},
)
