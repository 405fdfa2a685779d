package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "rentprice/internal/domain/listings"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	col := db.Collection("agg_listing")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "market", Value: 1}, {Key: "created_at", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &ListingRepository{col: col}
}

func (r *ListingRepository) FindAll(ctx context.Context) ([]*domainlistings.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domainlistings.Listing
	for cur.Next(ctx) {
		var doc listingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Create(ctx context.Context, listing *domainlistings.Listing) (*domainlistings.Listing, error) {
	if err := listing.AssignID(domainlistings.ListingID(uuid.NewString())); err != nil {
		return nil, err
	}
	if _, err := r.col.InsertOne(ctx, newListingDocument(listing)); err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domainlistings.Listing) (*domainlistings.Listing, error) {
	if !listing.Persisted() {
		return nil, domainlistings.ErrNotFound
	}
	doc := newListingDocument(listing)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, domainlistings.ErrNotFound
	}
	return listing, nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

type listingDocument struct {
	ID        string `bson:"_id"`
	Title     string `bson:"title"`
	BasePrice int64  `bson:"base_price"`
	Currency  string `bson:"currency"`
	Market    string `bson:"market"`
	HostName  string `bson:"host_name"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:        string(l.ID),
		Title:     l.Title,
		BasePrice: l.BasePrice,
		Currency:  l.Currency,
		Market:    l.Market,
		HostName:  l.HostName,
		CreatedAt: l.CreatedAt.UnixMilli(),
		UpdatedAt: l.UpdatedAt.UnixMilli(),
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:        domainlistings.ListingID(d.ID),
		Title:     d.Title,
		BasePrice: d.BasePrice,
		Currency:  d.Currency,
		Market:    d.Market,
		HostName:  d.HostName,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
