package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"rentprice/internal/infra/config"
	"rentprice/internal/infra/obs"
)

type ListingHTTP interface {
	Search(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Calendar(c *gin.Context)
}

type CatalogHTTP interface {
	Markets(c *gin.Context)
	Currencies(c *gin.Context)
}

type Handlers struct {
	Listing ListingHTTP
	Catalog CatalogHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the gin engine without binding it to an address.
func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	router.GET("/metrics", obs.MetricsHandler())

	api := router.Group("/api/v1")
	if h.Catalog != nil {
		api.GET("/markets", h.Catalog.Markets)
		api.GET("/currencies", h.Catalog.Currencies)
	}
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Search)
		api.POST("/listings", h.Listing.Create)
		api.GET("/listings/:id", h.Listing.Get)
		api.PUT("/listings/:id", h.Listing.Update)
		api.DELETE("/listings/:id", h.Listing.Delete)
		api.GET("/listings/:id/calendar", h.Listing.Calendar)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
