package listings

import (
	"context"
	"fmt"
	"time"

	"rentprice/internal/app/dto"
	"rentprice/internal/app/queries"
	domainlistings "rentprice/internal/domain/listings"
	domainpricing "rentprice/internal/domain/pricing"
	"rentprice/internal/domain/shared/money"
)

const listingCalendarKey = "listings.calendar"

// ListingCalendarQuery asks for the priced days of one month. An empty
// Currency keeps the listing currency and a zero Month means the current one.
type ListingCalendarQuery struct {
	ID       string
	Currency string
	Month    time.Time
}

func (ListingCalendarQuery) Key() string { return listingCalendarKey }

func (q ListingCalendarQuery) Validate() error {
	if q.ID == "" {
		return domainlistings.ErrNotFound
	}
	if q.Currency != "" && !money.IsKnownCurrency(q.Currency) {
		return &domainlistings.ValidationError{Problems: []error{
			fmt.Errorf("%w: %s", domainlistings.ErrUnknownCurrency, q.Currency),
		}}
	}
	return nil
}

type ListingCalendarHandler struct {
	Listings  domainlistings.Repository
	Generator *domainpricing.Generator
}

func (h *ListingCalendarHandler) Handle(ctx context.Context, q ListingCalendarQuery) ([]dto.CalendarDay, error) {
	if h.Listings == nil || h.Generator == nil {
		return nil, ErrRepositoryMissing
	}
	listing, err := h.Listings.ByID(ctx, domainlistings.ListingID(q.ID))
	if err != nil {
		return nil, err
	}
	days, err := h.Generator.Generate(ctx, listing, q.Currency, q.Month)
	if err != nil {
		return nil, err
	}
	return dto.MapCalendar(days), nil
}

var _ queries.Handler[ListingCalendarQuery, []dto.CalendarDay] = (*ListingCalendarHandler)(nil)
