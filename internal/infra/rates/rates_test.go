package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainpricing "rentprice/internal/domain/pricing"
)

const sampleBody = `{"base":"USD","timestamp":1706745600,"rates":{"USD":1,"EUR":0.92,"GBP":0.79,"JPY":147.5}}`

func newRatesServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Query().Get("app_id") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTableConvert(t *testing.T) {
	table := Table{Base: "USD", Rates: map[string]decimal.Decimal{"USD": dec("1"), "EUR": dec("0.8"), "GBP": dec("0.5")}}

	got, err := table.Convert("USD", "EUR", dec("100"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("80")), got.String())

	got, err = table.Convert("EUR", "GBP", dec("80"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("50")), got.String())

	_, err = table.Convert("USD", "CHF", dec("1"))
	assert.ErrorIs(t, err, domainpricing.ErrRateUnavailable)
}

func TestHTTPSourceFetch(t *testing.T) {
	srv, _ := newRatesServer(t, http.StatusOK, sampleBody)
	src := &HTTPSource{URL: srv.URL, AppID: "secret", Client: srv.Client()}

	table, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "USD", table.Base)
	assert.True(t, table.Rates["JPY"].Equal(dec("147.5")))
	assert.Equal(t, 2024, table.FetchedAt().Year())
}

func TestHTTPSourceFailures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		appID  string
	}{
		"server error":  {http.StatusInternalServerError, `oops`, "secret"},
		"unauthorized":  {http.StatusOK, sampleBody, "wrong"},
		"malformed":     {http.StatusOK, `{"rates":`, "secret"},
		"missing rates": {http.StatusOK, `{"base":"USD"}`, "secret"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := newRatesServer(t, tc.status, tc.body)
			src := &HTTPSource{URL: srv.URL, AppID: tc.appID, Client: srv.Client()}
			_, err := src.Fetch(context.Background())
			assert.ErrorIs(t, err, domainpricing.ErrRateUnavailable)
		})
	}
}

func TestHTTPSourceUnreachable(t *testing.T) {
	srv, _ := newRatesServer(t, http.StatusOK, sampleBody)
	srv.Close()
	src := &HTTPSource{URL: srv.URL, AppID: "secret", Client: &http.Client{Timeout: time.Second}}
	_, err := src.Fetch(context.Background())
	assert.ErrorIs(t, err, domainpricing.ErrRateUnavailable)
}

func TestConverterCachesInMemory(t *testing.T) {
	srv, hits := newRatesServer(t, http.StatusOK, sampleBody)
	conv := &Converter{
		Source: &HTTPSource{URL: srv.URL, AppID: "secret", Client: srv.Client()},
		Cache:  NewMemoryCache(),
		TTL:    time.Minute,
	}

	for i := 0; i < 3; i++ {
		got, err := conv.Convert(context.Background(), "USD", "EUR", dec("100"))
		require.NoError(t, err)
		assert.True(t, got.Equal(dec("92")), got.String())
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	same, err := conv.Convert(context.Background(), "EUR", "EUR", dec("5"))
	require.NoError(t, err)
	assert.True(t, same.Equal(dec("5")))
}

func TestMemoryCacheExpires(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	require.NoError(t, cache.Set(context.Background(), Table{Base: "USD", Rates: map[string]decimal.Decimal{"USD": dec("1")}}, time.Minute))

	_, ok, _ := cache.Get(context.Background())
	assert.True(t, ok)
	now = now.Add(2 * time.Minute)
	_, ok, _ = cache.Get(context.Background())
	assert.False(t, ok)
}

func TestRedisCacheSharesTable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCache(client)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	srv, hits := newRatesServer(t, http.StatusOK, sampleBody)
	conv := &Converter{Source: &HTTPSource{URL: srv.URL, AppID: "secret", Client: srv.Client()}, Cache: cache, TTL: time.Minute}
	_, err = conv.Convert(ctx, "USD", "GBP", dec("10"))
	require.NoError(t, err)

	other := &Converter{Source: &HTTPSource{URL: srv.URL, AppID: "secret", Client: srv.Client()}, Cache: NewRedisCache(client)}
	got, err := other.Convert(ctx, "USD", "GBP", dec("10"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("7.9")), got.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, cache.Ping(ctx))
}

func TestConverterFallsThroughBrokenCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	srv, _ := newRatesServer(t, http.StatusOK, sampleBody)
	conv := &Converter{Source: &HTTPSource{URL: srv.URL, AppID: "secret", Client: srv.Client()}, Cache: NewRedisCache(client)}
	got, err := conv.Convert(context.Background(), "USD", "JPY", dec("2"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("295")), got.String())
}

func TestConverterPropagatesSourceFailure(t *testing.T) {
	srv, _ := newRatesServer(t, http.StatusBadGateway, `upstream`)
	conv := &Converter{Source: &HTTPSource{URL: srv.URL, AppID: "secret", Client: srv.Client()}}
	_, err := conv.Convert(context.Background(), "USD", "EUR", dec("1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainpricing.ErrRateUnavailable))
}
