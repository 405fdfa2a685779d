package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentprice/internal/app/dto"
	"rentprice/internal/app/wiring"
	domainpricing "rentprice/internal/domain/pricing"
	"rentprice/internal/infra/config"
	"rentprice/internal/infra/obs"
	"rentprice/internal/infra/storage/memory"
)

type stubRates struct {
	rate decimal.Decimal
	err  error
}

func (s stubRates) Convert(_ context.Context, _, _ string, amount decimal.Decimal) (decimal.Decimal, error) {
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return amount.Mul(s.rate), nil
}

type testServer struct {
	router *gin.Engine
	outbox *memory.Outbox
}

func newTestServer(t *testing.T, rates domainpricing.RateProvider) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	box := memory.NewOutbox()
	buses := wiring.Build(wiring.Deps{
		Listings:    memory.NewListingRepository(),
		Outbox:      box,
		Idempotency: memory.NewIdempotencyStore(time.Hour),
		Rates:       rates,
		RateTimeout: time.Second,
		Now:         func() time.Time { return time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC) },
	})
	router := NewRouter(config.Config{Env: "test"}, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Listing: ListingHandler{Queries: buses.Queries, Commands: buses.Commands},
		Catalog: CatalogHandler{Queries: buses.Queries},
	})
	return testServer{router: router, outbox: box}
}

func (s testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s testServer) create(t *testing.T, title string, price int64, currency, market string) dto.Listing {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/listings", gin.H{
		"title": title, "base_price": price, "currency": currency, "market": market,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out dto.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeTitles(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page dto.ListingPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	titles := make([]string, 0, len(page.Items))
	for _, l := range page.Items {
		titles = append(titles, l.Title)
	}
	return titles
}

func TestSearchListings(t *testing.T) {
	s := newTestServer(t, stubRates{})
	s.create(t, "sf loft", 867, "USD", "san-francisco")
	s.create(t, "lisbon flat", 120, "EUR", "lisbon")
	s.create(t, "paris studio", 300, "EUR", "paris")

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"sf loft", "lisbon flat", "paris studio"}},
		{"?base_price.gt=500", []string{"sf loft"}},
		{"?base_price.lt=500", []string{"lisbon flat", "paris studio"}},
		{"?currency=USD&market=lisbon", []string{}},
		{"?base_price.gt=800&currency=USD&market=san-francisco", []string{"sf loft"}},
		{"?market=paris,lisbon&base_price.gte=120&base_price.lt=300", []string{"lisbon flat"}},
		{"?currency=eur&page=2", []string{"lisbon flat", "paris studio"}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got := decodeTitles(t, s.do(t, http.MethodGet, "/api/v1/listings"+tc.query, nil))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("titles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchRejectsMalformedNumber(t *testing.T) {
	s := newTestServer(t, stubRates{})
	w := s.do(t, http.MethodGet, "/api/v1/listings?base_price.gt=lots", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateValidationErrors(t *testing.T) {
	s := newTestServer(t, stubRates{})
	w := s.do(t, http.MethodPost, "/api/v1/listings", gin.H{"title": "x", "currency": "XYZ", "market": "atlantis"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Errors, 3)
	assert.Contains(t, body.Errors[0], "required")

	w = s.do(t, http.MethodPost, "/api/v1/listings", gin.H{"title": "x", "base_price": 1.5, "currency": "USD", "market": "tokyo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIsIdempotent(t *testing.T) {
	s := newTestServer(t, stubRates{})
	body := gin.H{"title": "loft", "base_price": 100, "currency": "USD", "market": "tokyo"}

	first := s.do(t, http.MethodPost, "/api/v1/listings", body, "Idempotency-Key", "abc")
	second := s.do(t, http.MethodPost, "/api/v1/listings", body, "Idempotency-Key", "abc")
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	titles := decodeTitles(t, s.do(t, http.MethodGet, "/api/v1/listings", nil))
	assert.Equal(t, []string{"loft"}, titles)
	assert.Len(t, s.outbox.Pending(), 1)
}

func TestGetUpdateDelete(t *testing.T) {
	s := newTestServer(t, stubRates{})
	created := s.create(t, "loft", 100, "usd", "Tokyo")
	assert.Equal(t, "USD", created.Currency)
	assert.Equal(t, "tokyo", created.Market)

	w := s.do(t, http.MethodGet, "/api/v1/listings/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/listings/"+created.ID, gin.H{
		"title": "loft", "base_price": 150, "currency": "USD", "market": "jerusalem",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/listings/"+created.ID, gin.H{
		"title": "loft", "base_price": 150, "currency": "USD", "market": "lisbon", "host_name": "Ana",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated dto.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, int64(150), updated.BasePrice)
	assert.Equal(t, "Ana", updated.HostName)

	w = s.do(t, http.MethodDelete, "/api/v1/listings/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/listings/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodDelete, "/api/v1/listings/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	names := make([]string, 0)
	for _, rec := range s.outbox.Pending() {
		names = append(names, rec.Name)
	}
	assert.Equal(t, []string{"listing.created", "listing.updated", "listing.deleted"}, names)
}

func TestCalendar(t *testing.T) {
	s := newTestServer(t, stubRates{rate: decimal.RequireFromString("0.5")})
	sf := s.create(t, "sf loft", 100, "USD", "san-francisco")

	w := s.do(t, http.MethodGet, "/api/v1/listings/"+sf.ID+"/calendar?month=2024-02", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var days []struct {
		Date     string      `json:"date"`
		Price    json.Number `json:"price"`
		Currency string      `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &days))
	require.Len(t, days, 29)
	assert.Equal(t, "2024-02-01", days[0].Date)
	assert.Equal(t, json.Number("100.00"), days[0].Price)
	assert.Equal(t, json.Number("125.00"), days[2].Price) // Saturday
	assert.Equal(t, json.Number("70.00"), days[6].Price)  // Wednesday
	assert.Equal(t, "USD", days[0].Currency)

	w = s.do(t, http.MethodGet, "/api/v1/listings/"+sf.ID+"/calendar?currency=eur&month=2024-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &days))
	require.Len(t, days, 31)
	assert.Equal(t, "EUR", days[0].Currency)
	assert.Equal(t, json.Number("50.00"), days[0].Price)

	w = s.do(t, http.MethodGet, "/api/v1/listings/"+sf.ID+"/calendar", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &days))
	assert.Len(t, days, 29, "defaults to the month of the injected clock")
}

func TestCalendarErrors(t *testing.T) {
	s := newTestServer(t, stubRates{err: errors.New("upstream down")})
	l := s.create(t, "loft", 100, "USD", "tokyo")

	assert.Equal(t, http.StatusBadGateway, s.do(t, http.MethodGet, "/api/v1/listings/"+l.ID+"/calendar?currency=EUR", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodGet, "/api/v1/listings/"+l.ID+"/calendar?currency=ABC", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/listings/"+l.ID+"/calendar?month=feb", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/listings/missing/calendar", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/listings/"+l.ID+"/calendar?currency=USD", nil).Code)
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t, stubRates{})

	w := s.do(t, http.MethodGet, "/api/v1/markets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var markets []dto.Market
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &markets))
	assert.NotEmpty(t, markets)
	assert.Equal(t, "amsterdam", markets[0].Code)

	w = s.do(t, http.MethodGet, "/api/v1/currencies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var currencies []dto.Currency
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &currencies))
	assert.Equal(t, "AUD", currencies[0].Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
	assert.Equal(t, http.StatusBadGateway, statusFor(domainpricing.ErrRateUnavailable))
}
