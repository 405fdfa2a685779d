package listings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v int64) *int64 { return &v }

func validAttrs() Attributes {
	return Attributes{
		Title:     "Comfortable Room In Cozy Neighborhood",
		BasePrice: price(867),
		Currency:  "usd",
		Market:    "San-Francisco",
		HostName:  "John Smith",
	}
}

func TestNewListingNormalizesFields(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	l, err := NewListing(validAttrs(), now)
	require.NoError(t, err)

	assert.Empty(t, l.ID)
	assert.False(t, l.Persisted())
	assert.Equal(t, int64(867), l.BasePrice)
	assert.Equal(t, "USD", l.Currency)
	assert.Equal(t, "san-francisco", l.Market)
	assert.Equal(t, now, l.CreatedAt)
	assert.Empty(t, l.PendingEvents())
}

func TestValidateCollectsProblems(t *testing.T) {
	err := Validate(Attributes{Currency: "XXX", Market: "jerusalem", BasePrice: price(-1)})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 4)
	assert.ErrorIs(t, err, ErrRequiredFields)
	assert.ErrorIs(t, err, ErrNegativePrice)
	assert.ErrorIs(t, err, ErrUnknownMarket)
	assert.ErrorIs(t, err, ErrUnknownCurrency)
	assert.Contains(t, verr.Messages(), "unknown market: jerusalem")
}

func TestValidateMissingPrice(t *testing.T) {
	attrs := validAttrs()
	attrs.BasePrice = nil
	assert.ErrorIs(t, Validate(attrs), ErrRequiredFields)

	attrs.BasePrice = price(0)
	assert.NoError(t, Validate(attrs))
}

func TestAssignIDRecordsCreatedEvent(t *testing.T) {
	l, err := NewListing(validAttrs(), time.Now())
	require.NoError(t, err)

	require.NoError(t, l.AssignID("abc"))
	assert.ErrorIs(t, l.AssignID("def"), ErrAlreadyPersisted)

	evs := l.PendingEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, "listing.created", evs[0].EventName())
	assert.Equal(t, "abc", evs[0].AggregateID())
}

func TestUpdateRejectsUnknownMarket(t *testing.T) {
	l, err := NewListing(validAttrs(), time.Now())
	require.NoError(t, err)
	require.NoError(t, l.AssignID("abc"))
	l.ClearEvents()

	attrs := validAttrs()
	attrs.Market = "jerusalem"
	err = l.Update(attrs, time.Now())
	assert.ErrorIs(t, err, ErrUnknownMarket)
	assert.Equal(t, "san-francisco", l.Market)
	assert.Empty(t, l.PendingEvents())

	attrs = Attributes{Title: "title", BasePrice: price(111), Currency: "EUR", Market: "lisbon", HostName: "Will Smith"}
	require.NoError(t, l.Update(attrs, time.Now()))
	assert.Equal(t, "lisbon", l.Market)
	assert.Equal(t, int64(111), l.BasePrice)
	require.Len(t, l.PendingEvents(), 1)
	updated, ok := l.PendingEvents()[0].(ListingUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, ListingUpdatedEvent{ListingID: "abc", BasePrice: 111, Currency: "EUR", Market: "lisbon", At: l.UpdatedAt}, updated)
}

func TestDrainEmptiesRecorder(t *testing.T) {
	l, err := NewListing(validAttrs(), time.Now())
	require.NoError(t, err)
	require.NoError(t, l.AssignID("abc"))
	l.MarkDeleted(time.Now())

	drained := l.Drain()
	require.Len(t, drained, 2)
	assert.Equal(t, "listing.deleted", drained[1].EventName())
	assert.Empty(t, l.Drain())
}

func TestCloneDropsEvents(t *testing.T) {
	l, err := NewListing(validAttrs(), time.Now())
	require.NoError(t, err)
	require.NoError(t, l.AssignID("abc"))

	c := l.Clone()
	assert.Equal(t, l.ID, c.ID)
	assert.Empty(t, c.PendingEvents())
}

func TestMarketsRegistry(t *testing.T) {
	m, ok := LookupMarket(" PARIS ")
	require.True(t, ok)
	assert.Equal(t, "paris", m.Code)

	_, ok = LookupMarket("francisco")
	assert.False(t, ok)

	list := Markets()
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Code, list[i].Code)
	}
}
