// Package wiring registers every query and command handler on the buses and
// applies the middleware chain.
package wiring

import (
	"log/slog"
	"time"

	"rentprice/internal/app/commands"
	catalogapp "rentprice/internal/app/handlers/catalog"
	listingapp "rentprice/internal/app/handlers/listings"
	"rentprice/internal/app/middleware"
	"rentprice/internal/app/outbox"
	"rentprice/internal/app/queries"
	domainlistings "rentprice/internal/domain/listings"
	domainpricing "rentprice/internal/domain/pricing"
)

type Deps struct {
	Listings    domainlistings.Repository
	Outbox      outbox.Outbox
	Idempotency middleware.IdempotencyStore
	Rates       domainpricing.RateProvider
	RateTimeout time.Duration
	Logger      *slog.Logger
	Observer    middleware.Observer
	Now         func() time.Time
}

type Buses struct {
	Queries  queries.Bus
	Commands commands.Bus
}

func Build(d Deps) Buses {
	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, listingapp.SearchListingsQuery{}.Key(), &listingapp.SearchListingsHandler{Listings: d.Listings})
	queries.RegisterHandler(queryBus, listingapp.GetListingQuery{}.Key(), &listingapp.GetListingHandler{Listings: d.Listings})
	queries.RegisterHandler(queryBus, listingapp.ListingCalendarQuery{}.Key(), &listingapp.ListingCalendarHandler{
		Listings:  d.Listings,
		Generator: &domainpricing.Generator{Rates: d.Rates, Timeout: d.RateTimeout, Now: d.Now},
	})
	queries.RegisterHandler(queryBus, catalogapp.ListMarketsQuery{}.Key(), catalogapp.MarketsHandler)
	queries.RegisterHandler(queryBus, catalogapp.ListCurrenciesQuery{}.Key(), catalogapp.CurrenciesHandler)

	writes := &listingapp.Handlers{
		Listings: d.Listings,
		Outbox:   d.Outbox,
		Encoder:  outbox.JSONEventEncoder{},
		Logger:   d.Logger,
		Now:      d.Now,
	}
	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, listingapp.CreateListingCommand{}.Key(), listingapp.CreateListingHandler{Handlers: writes})
	commands.RegisterHandler(commandBus, listingapp.UpdateListingCommand{}.Key(), listingapp.UpdateListingHandler{Handlers: writes})
	commands.RegisterHandler(commandBus, listingapp.DeleteListingCommand{}.Key(), listingapp.DeleteListingHandler{Handlers: writes})

	commandMW := []middleware.CommandMiddleware{
		middleware.CommandLogging(d.Logger, d.Observer),
		middleware.Validation(middleware.SelfValidator),
	}
	if d.Idempotency != nil {
		commandMW = append(commandMW, middleware.Idempotency(d.Idempotency, nil))
	}
	if d.Outbox != nil {
		commandMW = append(commandMW, middleware.OutboxFlush(d.Outbox, d.Logger))
	}

	return Buses{
		Queries: middleware.ChainQueries(queryBus,
			middleware.QueryLogging(d.Logger, d.Observer),
			middleware.QueryValidation(middleware.SelfValidator),
		),
		Commands: middleware.ChainCommands(commandBus, commandMW...),
	}
}
