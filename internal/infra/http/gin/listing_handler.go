package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"rentprice/internal/app/commands"
	"rentprice/internal/app/dto"
	listingapp "rentprice/internal/app/handlers/listings"
	"rentprice/internal/app/queries"
	domainlistings "rentprice/internal/domain/listings"
)

// ListingHandler wires listing queries and commands to HTTP.
type ListingHandler struct {
	Queries  queries.Bus
	Commands commands.Bus
	Logger   *slog.Logger
}

type listingRequest struct {
	Title     string `json:"title"`
	BasePrice *int64 `json:"base_price"`
	Currency  string `json:"currency"`
	Market    string `json:"market"`
	HostName  string `json:"host_name"`
}

func (r listingRequest) attributes() domainlistings.Attributes {
	return domainlistings.Attributes{
		Title:     r.Title,
		BasePrice: r.BasePrice,
		Currency:  r.Currency,
		Market:    r.Market,
		HostName:  r.HostName,
	}
}

// Search filters listings by query parameters, e.g.
// /listings?market=paris,lisbon&currency=EUR&base_price.gte=100.
func (h ListingHandler) Search(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	result, err := queries.Ask[listingapp.SearchListingsQuery, dto.ListingPage](c.Request.Context(), h.Queries, listingapp.SearchListingsQuery{Params: params})
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	result, err := queries.Ask[listingapp.GetListingQuery, dto.Listing](c.Request.Context(), h.Queries, listingapp.GetListingQuery{ID: c.Param("id")})
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Calendar returns the priced days of ?month=YYYY-MM (default: current month),
// optionally converted to ?currency=XXX.
func (h ListingHandler) Calendar(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	var month time.Time
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must look like 2024-02"})
			return
		}
		month = parsed
	}
	query := listingapp.ListingCalendarQuery{
		ID:       c.Param("id"),
		Currency: strings.ToUpper(strings.TrimSpace(c.Query("currency"))),
		Month:    month,
	}
	result, err := queries.Ask[listingapp.ListingCalendarQuery, []dto.CalendarDay](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands bus unavailable"})
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.CreateListingCommand{
		Attributes: req.attributes(),
		RequestKey: strings.TrimSpace(c.GetHeader("Idempotency-Key")),
	}
	result, err := commands.Dispatch[listingapp.CreateListingCommand, *dto.Listing](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ListingHandler) Update(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands bus unavailable"})
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.UpdateListingCommand{ID: c.Param("id"), Attributes: req.attributes()}
	result, err := commands.Dispatch[listingapp.UpdateListingCommand, *dto.Listing](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Delete(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands bus unavailable"})
		return
	}
	id := c.Param("id")
	if id == "" {
		respondWithError(c, h.Logger, errors.New("listing id is required"))
		return
	}
	result, err := commands.Dispatch[listingapp.DeleteListingCommand, *dto.Listing](c.Request.Context(), h.Commands, listingapp.DeleteListingCommand{ID: id})
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ListingHTTP = ListingHandler{}
