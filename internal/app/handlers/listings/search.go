package listings

import (
	"context"
	"errors"

	"rentprice/internal/app/dto"
	"rentprice/internal/app/queries"
	"rentprice/internal/domain/filter"
	domainlistings "rentprice/internal/domain/listings"
)

const (
	searchListingsKey = "listings.search"
	getListingKey     = "listings.get"
)

var ErrRepositoryMissing = errors.New("listings: repository not configured")

// SearchListingsQuery carries raw filter parameters, e.g. {"market": "paris,lisbon", "base_price.lt": "300"}.
type SearchListingsQuery struct {
	Params map[string]string
}

func (SearchListingsQuery) Key() string { return searchListingsKey }

type SearchListingsHandler struct {
	Listings domainlistings.Repository
}

func (h *SearchListingsHandler) Handle(ctx context.Context, q SearchListingsQuery) (dto.ListingPage, error) {
	if h.Listings == nil {
		return dto.ListingPage{}, ErrRepositoryMissing
	}
	criteria, err := filter.Parse(q.Params)
	if err != nil {
		return dto.ListingPage{}, err
	}
	all, err := h.Listings.FindAll(ctx)
	if err != nil {
		return dto.ListingPage{}, err
	}
	matched := all
	if !criteria.Empty() {
		matched = filter.Apply(all, criteria)
	}
	return dto.ListingPage{Items: dto.MapListings(matched), Total: len(matched)}, nil
}

type GetListingQuery struct {
	ID string
}

func (GetListingQuery) Key() string { return getListingKey }

func (q GetListingQuery) Validate() error {
	if q.ID == "" {
		return domainlistings.ErrNotFound
	}
	return nil
}

type GetListingHandler struct {
	Listings domainlistings.Repository
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (dto.Listing, error) {
	if h.Listings == nil {
		return dto.Listing{}, ErrRepositoryMissing
	}
	listing, err := h.Listings.ByID(ctx, domainlistings.ListingID(q.ID))
	if err != nil {
		return dto.Listing{}, err
	}
	return dto.MapListing(listing), nil
}

var _ queries.Handler[SearchListingsQuery, dto.ListingPage] = (*SearchListingsHandler)(nil)
var _ queries.Handler[GetListingQuery, dto.Listing] = (*GetListingHandler)(nil)
