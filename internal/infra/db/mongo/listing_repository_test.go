package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"rentprice/internal/app/middleware"
	domainlistings "rentprice/internal/domain/listings"
)

func TestListingDocumentUsesMillisecondTimestamps(t *testing.T) {
	created := time.Date(2024, 2, 10, 9, 30, 15, 123456789, time.UTC)
	listing := &domainlistings.Listing{
		ID:        "l-1",
		Title:     "loft",
		BasePrice: 867,
		Currency:  "USD",
		Market:    "san-francisco",
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}

	raw, err := bson.Marshal(newListingDocument(listing))
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.Equal(t, "l-1", fields["_id"])
	assert.Equal(t, int64(867), fields["base_price"])
	assert.Equal(t, created.UnixMilli(), fields["created_at"])

	var doc listingDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	back := doc.toAggregate()
	assert.Equal(t, listing.ID, back.ID)
	assert.Equal(t, "san-francisco", back.Market)
	assert.Equal(t, created.Truncate(time.Millisecond), back.CreatedAt)
	assert.Equal(t, created.Add(time.Hour).Truncate(time.Millisecond), back.UpdatedAt)
}

func TestIdempotencyDocumentExpiry(t *testing.T) {
	at := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	doc := newIdempotencyDocument(middleware.IdempotencyRecord{
		Key:        "listings.create:abc",
		Command:    "listings.create",
		Payload:    []byte(`{"id":"l-1"}`),
		OccurredAt: at,
	}, time.Hour)

	assert.Equal(t, at.Add(time.Hour), doc.ExpiresAt)
	rec := doc.record()
	assert.Equal(t, "listings.create:abc", rec.Key)
	assert.JSONEq(t, `{"id":"l-1"}`, string(rec.Payload))

	fresh := newIdempotencyDocument(middleware.IdempotencyRecord{Key: "k"}, time.Minute)
	assert.False(t, fresh.OccurredAt.IsZero())
}
