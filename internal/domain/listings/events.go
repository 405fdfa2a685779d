package listings

import "time"

// ListingCreatedEvent carries the full initial state so consumers need no lookup.
type ListingCreatedEvent struct {
	ListingID ListingID `json:"listing_id"`
	Title     string    `json:"title"`
	BasePrice int64     `json:"base_price"`
	Currency  string    `json:"currency"`
	Market    string    `json:"market"`
	At        time.Time `json:"at"`
}

func (e ListingCreatedEvent) EventName() string     { return "listing.created" }
func (e ListingCreatedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingCreatedEvent) OccurredAt() time.Time { return e.At }

// ListingUpdatedEvent carries the price-relevant fields after a full update.
type ListingUpdatedEvent struct {
	ListingID ListingID `json:"listing_id"`
	BasePrice int64     `json:"base_price"`
	Currency  string    `json:"currency"`
	Market    string    `json:"market"`
	At        time.Time `json:"at"`
}

func (e ListingUpdatedEvent) EventName() string     { return "listing.updated" }
func (e ListingUpdatedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingUpdatedEvent) OccurredAt() time.Time { return e.At }

type ListingDeletedEvent struct {
	ListingID ListingID `json:"listing_id"`
	At        time.Time `json:"at"`
}

func (e ListingDeletedEvent) EventName() string     { return "listing.deleted" }
func (e ListingDeletedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingDeletedEvent) OccurredAt() time.Time { return e.At }
