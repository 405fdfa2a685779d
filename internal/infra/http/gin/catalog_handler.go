package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentprice/internal/app/dto"
	catalogapp "rentprice/internal/app/handlers/catalog"
	"rentprice/internal/app/queries"
)

type CatalogHandler struct {
	Queries queries.Bus
}

func (h CatalogHandler) Markets(c *gin.Context) {
	result, err := queries.Ask[catalogapp.ListMarketsQuery, []dto.Market](c.Request.Context(), h.Queries, catalogapp.ListMarketsQuery{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CatalogHandler) Currencies(c *gin.Context) {
	result, err := queries.Ask[catalogapp.ListCurrenciesQuery, []dto.Currency](c.Request.Context(), h.Queries, catalogapp.ListCurrenciesQuery{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ CatalogHTTP = CatalogHandler{}
