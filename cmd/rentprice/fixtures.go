package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	domainlistings "rentprice/internal/domain/listings"
)

type listingFixture struct {
	Title     string `json:"title"`
	BasePrice *int64 `json:"base_price"`
	Currency  string `json:"currency"`
	Market    string `json:"market"`
	HostName  string `json:"host_name"`
}

// loadListingFixtures seeds an empty repository from a JSON array of listings.
// Invalid entries are logged and skipped.
func loadListingFixtures(ctx context.Context, repo domainlistings.Repository, path string, logger *slog.Logger) error {
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("list existing: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("repository not empty, skipping fixtures", "count", len(existing))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("listing fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("listing fixtures file empty", "path", path)
		return nil
	}

	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for i, fx := range fixtures {
		listing, err := domainlistings.NewListing(domainlistings.Attributes{
			Title:     fx.Title,
			BasePrice: fx.BasePrice,
			Currency:  fx.Currency,
			Market:    fx.Market,
			HostName:  fx.HostName,
		}, now)
		if err != nil {
			logger.Error("fixture invalid", "index", i, "error", err)
			continue
		}
		saved, err := repo.Create(ctx, listing)
		if err != nil {
			logger.Error("cannot store fixture listing", "index", i, "error", err)
			continue
		}
		saved.ClearEvents()
		logger.Debug("listing fixture imported", "listing_id", saved.ID)
	}
	logger.Info("listing fixtures loaded", "path", path, "count", len(fixtures))
	return nil
}
