package s3

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainlistings "rentprice/internal/domain/listings"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
	failPut error
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok, nil
}

func (f *fakeStore) Put(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != nil {
		return f.failPut
	}
	f.puts++
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func newListing(t *testing.T, title string, price int64) *domainlistings.Listing {
	t.Helper()
	l, err := domainlistings.NewListing(domainlistings.Attributes{
		Title: title, BasePrice: &price, Currency: "EUR", Market: "lisbon",
	}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return l
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	repo, err := OpenSnapshot(ctx, store, "listings.json")
	require.NoError(t, err)
	created, err := repo.Create(ctx, newListing(t, "riverside", 120))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newListing(t, "old town", 80))
	require.NoError(t, err)
	assert.Equal(t, 2, store.puts)

	reopened, err := OpenSnapshot(ctx, store, "listings.json")
	require.NoError(t, err)
	all, err := reopened.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, created.ID, all[0].ID)
	assert.Equal(t, int64(120), all[0].BasePrice)
	assert.True(t, all[0].CreatedAt.Equal(created.CreatedAt))

	_, err = reopened.Delete(ctx, created.ID)
	require.NoError(t, err)
	again, err := OpenSnapshot(ctx, store, "listings.json")
	require.NoError(t, err)
	all, err = again.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSnapshotRollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo, err := OpenSnapshot(ctx, store, "listings.json")
	require.NoError(t, err)
	saved, err := repo.Create(ctx, newListing(t, "loft", 100))
	require.NoError(t, err)

	store.failPut = errors.New("bucket offline")

	_, err = repo.Create(ctx, newListing(t, "studio", 50))
	require.Error(t, err)

	changed, err := repo.ByID(ctx, saved.ID)
	require.NoError(t, err)
	changed.Title = "renamed"
	_, err = repo.Update(ctx, changed)
	require.Error(t, err)

	_, err = repo.Delete(ctx, saved.ID)
	require.Error(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "loft", all[0].Title)
}

func TestSnapshotDeleteRollbackKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo, err := OpenSnapshot(ctx, store, "listings.json")
	require.NoError(t, err)
	var middle domainlistings.ListingID
	for _, title := range []string{"first", "middle", "last"} {
		saved, err := repo.Create(ctx, newListing(t, title, 100))
		require.NoError(t, err)
		if title == "middle" {
			middle = saved.ID
		}
	}

	store.failPut = errors.New("bucket offline")
	_, err = repo.Delete(ctx, middle)
	require.Error(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	titles := make([]string, 0, len(all))
	for _, l := range all {
		titles = append(titles, l.Title)
	}
	assert.Equal(t, []string{"first", "middle", "last"}, titles)
}

func TestOpenSnapshotRejectsGarbage(t *testing.T) {
	store := newFakeStore()
	store.objects["listings.json"] = []byte("not json")
	_, err := OpenSnapshot(context.Background(), store, "listings.json")
	assert.ErrorContains(t, err, "decode snapshot")
}
