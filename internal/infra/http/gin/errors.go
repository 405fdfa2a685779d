package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentprice/internal/domain/filter"
	domainlistings "rentprice/internal/domain/listings"
	domainpricing "rentprice/internal/domain/pricing"
)

// statusFor maps application errors to HTTP status codes.
func statusFor(err error) int {
	var verr *domainlistings.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, filter.ErrMalformedFilter):
		return http.StatusBadRequest
	case errors.Is(err, domainlistings.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainlistings.ErrAlreadyPersisted):
		return http.StatusConflict
	case errors.Is(err, domainpricing.ErrRateUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if logger != nil && status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err, "path", c.FullPath(), "request_id", c.GetString("request_id"))
	}
	var verr *domainlistings.ValidationError
	if errors.As(err, &verr) {
		c.JSON(status, gin.H{"errors": verr.Messages()})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
