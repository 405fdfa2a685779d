package listings

import (
	"context"
	"log/slog"
	"time"

	"rentprice/internal/app/commands"
	"rentprice/internal/app/dto"
	"rentprice/internal/app/middleware"
	"rentprice/internal/app/outbox"
	domainlistings "rentprice/internal/domain/listings"
)

const (
	createListingKey = "listings.create"
	updateListingKey = "listings.update"
	deleteListingKey = "listings.delete"
)

type CreateListingCommand struct {
	Attributes domainlistings.Attributes
	RequestKey string
}

func (CreateListingCommand) Key() string              { return createListingKey }
func (c CreateListingCommand) IdempotencyKey() string { return c.RequestKey }
func (CreateListingCommand) ResultPrototype() any     { return &dto.Listing{} }

type UpdateListingCommand struct {
	ID         string
	Attributes domainlistings.Attributes
}

func (UpdateListingCommand) Key() string { return updateListingKey }

type DeleteListingCommand struct {
	ID string
}

func (DeleteListingCommand) Key() string { return deleteListingKey }

// Handlers groups the write side. Events recorded by the aggregate are moved
// to the outbox after the repository call succeeds.
type Handlers struct {
	Listings domainlistings.Repository
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Logger   *slog.Logger
	Now      func() time.Time
}

type CreateListingHandler struct{ *Handlers }

func (h CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*dto.Listing, error) {
	if h.Listings == nil {
		return nil, ErrRepositoryMissing
	}
	listing, err := domainlistings.NewListing(cmd.Attributes, h.now())
	if err != nil {
		return nil, err
	}
	saved, err := h.Listings.Create(ctx, listing)
	if err != nil {
		return nil, err
	}
	if err := h.drain(ctx, saved); err != nil {
		return nil, err
	}
	h.log("listing created", saved)
	result := dto.MapListing(saved)
	return &result, nil
}

type UpdateListingHandler struct{ *Handlers }

func (h UpdateListingHandler) Handle(ctx context.Context, cmd UpdateListingCommand) (*dto.Listing, error) {
	if h.Listings == nil {
		return nil, ErrRepositoryMissing
	}
	listing, err := h.Listings.ByID(ctx, domainlistings.ListingID(cmd.ID))
	if err != nil {
		return nil, err
	}
	if err := listing.Update(cmd.Attributes, h.now()); err != nil {
		return nil, err
	}
	saved, err := h.Listings.Update(ctx, listing)
	if err != nil {
		return nil, err
	}
	if err := h.drain(ctx, listing); err != nil {
		return nil, err
	}
	h.log("listing updated", saved)
	result := dto.MapListing(saved)
	return &result, nil
}

type DeleteListingHandler struct{ *Handlers }

func (h DeleteListingHandler) Handle(ctx context.Context, cmd DeleteListingCommand) (*dto.Listing, error) {
	if h.Listings == nil {
		return nil, ErrRepositoryMissing
	}
	removed, err := h.Listings.Delete(ctx, domainlistings.ListingID(cmd.ID))
	if err != nil {
		return nil, err
	}
	removed.MarkDeleted(h.now())
	if err := h.drain(ctx, removed); err != nil {
		return nil, err
	}
	h.log("listing deleted", removed)
	result := dto.MapListing(removed)
	return &result, nil
}

func (h *Handlers) drain(ctx context.Context, listing *domainlistings.Listing) error {
	return outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), listing.Drain())
}

func (h *Handlers) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

func (h *Handlers) log(msg string, l *domainlistings.Listing) {
	if h.Logger != nil {
		h.Logger.Info(msg, "listing_id", l.ID, "market", l.Market)
	}
}

var _ commands.Handler[CreateListingCommand, *dto.Listing] = CreateListingHandler{}
var _ commands.Handler[UpdateListingCommand, *dto.Listing] = UpdateListingHandler{}
var _ commands.Handler[DeleteListingCommand, *dto.Listing] = DeleteListingHandler{}
var _ middleware.IdempotentCommand = CreateListingCommand{}
