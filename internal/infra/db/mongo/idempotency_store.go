package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rentprice/internal/app/middleware"
)

const idempotencyCollection = "app_idempotency"

// IdempotencyStore keeps command results keyed by scoped idempotency key.
// Documents expire through a TTL index on expires_at.
type IdempotencyStore struct {
	col *mongo.Collection
	ttl time.Duration
}

// NewIdempotencyStore creates the store and its TTL index. A non-positive ttl
// falls back to one day.
func NewIdempotencyStore(ctx context.Context, db *mongo.Database, ttl time.Duration) (*IdempotencyStore, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &IdempotencyStore{col: db.Collection(idempotencyCollection), ttl: ttl}
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("mongo: idempotency index: %w", err)
	}
	return s, nil
}

// Get ignores records whose expiry passed but which the TTL monitor has not
// removed yet.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	filter := bson.M{"_id": key, "expires_at": bson.M{"$gt": time.Now().UTC()}}
	var doc idempotencyDocument
	err := s.col.FindOne(ctx, filter).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return middleware.IdempotencyRecord{}, false, nil
	case err != nil:
		return middleware.IdempotencyRecord{}, false, err
	}
	return doc.record(), true, nil
}

// Save keeps the first stored result when two requests race on one key.
func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	doc := newIdempotencyDocument(rec, s.ttl)
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	return err
}

type idempotencyDocument struct {
	ID         string    `bson:"_id"`
	Command    string    `bson:"command"`
	Payload    []byte    `bson:"payload"`
	OccurredAt time.Time `bson:"occurred_at"`
	ExpiresAt  time.Time `bson:"expires_at"`
}

func newIdempotencyDocument(rec middleware.IdempotencyRecord, ttl time.Duration) idempotencyDocument {
	occurred := rec.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	return idempotencyDocument{
		ID:         rec.Key,
		Command:    rec.Command,
		Payload:    rec.Payload,
		OccurredAt: occurred,
		ExpiresAt:  occurred.Add(ttl),
	}
}

func (d idempotencyDocument) record() middleware.IdempotencyRecord {
	return middleware.IdempotencyRecord{Key: d.ID, Command: d.Command, Payload: d.Payload, OccurredAt: d.OccurredAt}
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
