package s3

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	domainlistings "rentprice/internal/domain/listings"
	"rentprice/internal/infra/storage/memory"
)

// SnapshotRepository serves reads from memory and rewrites the whole listing
// set as one JSON object after every change.
type SnapshotRepository struct {
	store ObjectStore
	key   string
	mem   *memory.ListingRepository

	writeMu sync.Mutex
}

// OpenSnapshot loads the object at key, if any, into a fresh repository.
func OpenSnapshot(ctx context.Context, store ObjectStore, key string) (*SnapshotRepository, error) {
	repo := &SnapshotRepository{store: store, key: key, mem: memory.NewListingRepository()}
	data, found, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found || len(data) == 0 {
		return repo, nil
	}
	var records []snapshotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("s3: decode snapshot %s: %w", key, err)
	}
	for _, rec := range records {
		repo.mem.Restore(rec.toAggregate())
	}
	return repo, nil
}

func (r *SnapshotRepository) FindAll(ctx context.Context) ([]*domainlistings.Listing, error) {
	return r.mem.FindAll(ctx)
}

func (r *SnapshotRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	return r.mem.ByID(ctx, id)
}

func (r *SnapshotRepository) Create(ctx context.Context, listing *domainlistings.Listing) (*domainlistings.Listing, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	saved, err := r.mem.Create(ctx, listing)
	if err != nil {
		return nil, err
	}
	if err := r.persist(ctx); err != nil {
		_, _ = r.mem.Delete(ctx, saved.ID)
		return nil, err
	}
	return saved, nil
}

func (r *SnapshotRepository) Update(ctx context.Context, listing *domainlistings.Listing) (*domainlistings.Listing, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	previous, err := r.mem.ByID(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	saved, err := r.mem.Update(ctx, listing)
	if err != nil {
		return nil, err
	}
	if err := r.persist(ctx); err != nil {
		r.mem.Restore(previous)
		return nil, err
	}
	return saved, nil
}

func (r *SnapshotRepository) Delete(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	removed, pos, err := r.mem.Remove(id)
	if err != nil {
		return nil, err
	}
	if err := r.persist(ctx); err != nil {
		r.mem.RestoreAt(removed, pos)
		return nil, err
	}
	return removed, nil
}

func (r *SnapshotRepository) persist(ctx context.Context) error {
	all, err := r.mem.FindAll(ctx)
	if err != nil {
		return err
	}
	records := make([]snapshotRecord, 0, len(all))
	for _, l := range all {
		records = append(records, newSnapshotRecord(l))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, r.key, data, "application/json")
}

type snapshotRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	BasePrice int64     `json:"base_price"`
	Currency  string    `json:"currency"`
	Market    string    `json:"market"`
	HostName  string    `json:"host_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSnapshotRecord(l *domainlistings.Listing) snapshotRecord {
	return snapshotRecord{
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

func (s snapshotRecord) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:        domainlistings.ListingID(s.ID),
		Title:     s.Title,
		BasePrice: s.BasePrice,
		Currency:  s.Currency,
		Market:    s.Market,
		HostName:  s.HostName,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

var _ domainlistings.Repository = (*SnapshotRepository)(nil)
