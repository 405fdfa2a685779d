package dto

import (
	"time"

	domainlistings "rentprice/internal/domain/listings"
)

// Listing is the public representation of a listing record.
type Listing struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	BasePrice int64     `json:"base_price"`
	Currency  string    `json:"currency"`
	Market    string    `json:"market"`
	HostName  string    `json:"host_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func MapListing(l *domainlistings.Listing) Listing {
	if l == nil {
		return Listing{}
	}
	return Listing{
		ID:        string(l.ID),
		Title:     l.Title,
		BasePrice: l.BasePrice,
		Currency:  l.Currency,
		Market:    l.Market,
		HostName:  l.HostName,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func MapListings(items []*domainlistings.Listing) []Listing {
	out := make([]Listing, 0, len(items))
	for _, l := range items {
		out = append(out, MapListing(l))
	}
	return out
}

// ListingPage is the search response envelope.
type ListingPage struct {
	Items []Listing `json:"items"`
	Total int       `json:"total"`
}
