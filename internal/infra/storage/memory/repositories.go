package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	domainlistings "rentprice/internal/domain/listings"
)

// ListingRepository keeps listings in memory in insertion order. Callers
// always receive copies, so mutations only land through Update.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
	order []domainlistings.ListingID
	newID func() string
}

// NewListingRepository builds an empty repository.
func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
		newID: uuid.NewString,
	}
}

func (r *ListingRepository) FindAll(ctx context.Context) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlistings.Listing, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id].Clone())
	}
	return out, nil
}

// ByID returns a listing or domainlistings.ErrNotFound.
func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	return listing.Clone(), nil
}

// Create assigns a fresh id to listing and stores a copy of it.
func (r *ListingRepository) Create(ctx context.Context, listing *domainlistings.Listing) (*domainlistings.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := listing.AssignID(domainlistings.ListingID(r.newID())); err != nil {
		return nil, err
	}
	r.items[listing.ID] = listing.Clone()
	r.order = append(r.order, listing.ID)
	return listing, nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domainlistings.Listing) (*domainlistings.Listing, error) {
	if !listing.Persisted() {
		return nil, domainlistings.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[listing.ID]; !ok {
		return nil, domainlistings.ErrNotFound
	}
	r.items[listing.ID] = listing.Clone()
	return listing, nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	listing, _, err := r.Remove(id)
	return listing, err
}

// Remove deletes id and reports the position it held in insertion order, so
// a caller can put it back with RestoreAt.
func (r *ListingRepository) Remove(id domainlistings.ListingID) (*domainlistings.Listing, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, -1, domainlistings.ErrNotFound
	}
	delete(r.items, id)
	pos := -1
	for i, existing := range r.order {
		if existing == id {
			pos = i
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return listing, pos, nil
}

// Restore puts a persisted listing back as-is, keeping its id. Used when
// loading snapshots.
func (r *ListingRepository) Restore(listing *domainlistings.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[listing.ID]; !exists {
		r.order = append(r.order, listing.ID)
	}
	r.items[listing.ID] = listing.Clone()
}

// RestoreAt reinserts a removed listing at position pos, clamped to the
// current length.
func (r *ListingRepository) RestoreAt(listing *domainlistings.Listing, pos int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[listing.ID]; !exists {
		if pos < 0 || pos > len(r.order) {
			pos = len(r.order)
		}
		r.order = append(r.order, "")
		copy(r.order[pos+1:], r.order[pos:])
		r.order[pos] = listing.ID
	}
	r.items[listing.ID] = listing.Clone()
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
