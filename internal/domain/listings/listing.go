package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentprice/internal/domain/shared/events"
	"rentprice/internal/domain/shared/money"
)

var (
	ErrNotFound         = errors.New("listings: record not found")
	ErrAlreadyPersisted = errors.New("listings: listing already has an id")
)

type ListingID string

// Listing is a rentable unit priced per day in its own currency.
type Listing struct {
	ID        ListingID
	Title     string
	BasePrice int64
	Currency  string
	Market    string
	HostName  string
	CreatedAt time.Time
	UpdatedAt time.Time
	events.EventRecorder
}

// Repository is the persistence port. Implementations live under internal/infra.
type Repository interface {
	FindAll(ctx context.Context) ([]*Listing, error)
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Create(ctx context.Context, listing *Listing) (*Listing, error)
	Update(ctx context.Context, listing *Listing) (*Listing, error)
	Delete(ctx context.Context, id ListingID) (*Listing, error)
}

// Attributes carries the user-editable fields. BasePrice is a pointer so that
// an absent price can be told apart from zero.
type Attributes struct {
	Title     string
	BasePrice *int64
	Currency  string
	Market    string
	HostName  string
}

func NewListing(attrs Attributes, now time.Time) (*Listing, error) {
	if err := Validate(attrs); err != nil {
		return nil, err
	}
	l := &Listing{CreatedAt: now.UTC(), UpdatedAt: now.UTC()}
	l.apply(attrs)
	return l, nil
}

// AssignID is called by repositories on first persistence.
func (l *Listing) AssignID(id ListingID) error {
	if l.Persisted() {
		return ErrAlreadyPersisted
	}
	l.ID = id
	l.Record(ListingCreatedEvent{
		ListingID: id,
		Title:     l.Title,
		BasePrice: l.BasePrice,
		Currency:  l.Currency,
		Market:    l.Market,
		At:        l.CreatedAt,
	})
	return nil
}

// Update replaces all editable fields, mirroring a full PUT.
func (l *Listing) Update(attrs Attributes, now time.Time) error {
	if err := Validate(attrs); err != nil {
		return err
	}
	l.apply(attrs)
	l.UpdatedAt = now.UTC()
	l.Record(ListingUpdatedEvent{
		ListingID: l.ID,
		BasePrice: l.BasePrice,
		Currency:  l.Currency,
		Market:    l.Market,
		At:        l.UpdatedAt,
	})
	return nil
}

// MarkDeleted records the removal of a persisted listing.
func (l *Listing) MarkDeleted(now time.Time) {
	l.Record(ListingDeletedEvent{ListingID: l.ID, At: now.UTC()})
}

// Persisted reports whether the listing went through a repository Create.
func (l *Listing) Persisted() bool {
	return l.ID != ""
}

// Clone returns a copy without pending events.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	return &Listing{
		ID:        l.ID,
		Title:     l.Title,
		BasePrice: l.BasePrice,
		Currency:  l.Currency,
		Market:    l.Market,
		HostName:  l.HostName,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (l *Listing) apply(attrs Attributes) {
	l.Title = strings.TrimSpace(attrs.Title)
	l.BasePrice = *attrs.BasePrice
	l.Currency = money.NormalizeCode(attrs.Currency)
	l.Market = NormalizeMarket(attrs.Market)
	l.HostName = strings.TrimSpace(attrs.HostName)
}
