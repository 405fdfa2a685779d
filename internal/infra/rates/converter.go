package rates

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainpricing "rentprice/internal/domain/pricing"
	"rentprice/internal/infra/obs"
)

const DefaultTTL = time.Hour

// Converter implements domainpricing.RateProvider on top of a cached table.
// Cache errors are logged and fall through to the source.
type Converter struct {
	Source Source
	Cache  Cache
	TTL    time.Duration
	Logger *slog.Logger

	mu sync.Mutex
}

func (c *Converter) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	table, err := c.table(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return table.Convert(from, to, amount)
}

func (c *Converter) table(ctx context.Context) (Table, error) {
	if table, ok := c.cached(ctx); ok {
		return table, nil
	}

	// One upstream call at a time; later callers usually find the fresh table.
	c.mu.Lock()
	defer c.mu.Unlock()
	if table, ok := c.cached(ctx); ok {
		return table, nil
	}

	table, err := c.Source.Fetch(ctx)
	obs.IncRateLookup("upstream", err)
	if err != nil {
		return Table{}, err
	}
	if c.Cache != nil {
		if err := c.Cache.Set(ctx, table, c.ttl()); err != nil {
			c.warn("rates cache write failed", err)
		}
	}
	return table, nil
}

func (c *Converter) cached(ctx context.Context) (Table, bool) {
	if c.Cache == nil {
		return Table{}, false
	}
	table, ok, err := c.Cache.Get(ctx)
	if err != nil {
		obs.IncRateLookup("cache", err)
		c.warn("rates cache read failed", err)
		return Table{}, false
	}
	if ok {
		obs.IncRateLookup("cache", nil)
	}
	return table, ok
}

func (c *Converter) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultTTL
	}
	return c.TTL
}

func (c *Converter) warn(msg string, err error) {
	if c.Logger != nil {
		c.Logger.Warn(msg, "error", err)
	}
}

var _ domainpricing.RateProvider = (*Converter)(nil)
