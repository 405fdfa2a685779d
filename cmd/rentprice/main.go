package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"rentprice/internal/app/middleware"
	"rentprice/internal/app/outbox"
	"rentprice/internal/app/wiring"
	domainlistings "rentprice/internal/domain/listings"
	"rentprice/internal/infra/broker/kafka"
	"rentprice/internal/infra/config"
	mongostore "rentprice/internal/infra/db/mongo"
	ginserver "rentprice/internal/infra/http/gin"
	"rentprice/internal/infra/obs"
	outboxrelay "rentprice/internal/infra/outbox"
	"rentprice/internal/infra/rates"
	"rentprice/internal/infra/storage/memory"
	"rentprice/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("dev").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	fixturesPath := cfg.ListingsFixtures
	if fixturesPath == "" {
		fixturesPath = defaultListingFixturesPath()
	}
	if err := loadListingFixtures(ctx, app.listings, fixturesPath, logger); err != nil {
		logger.Warn("listing fixtures load failed", "error", err, "path", fixturesPath)
	}

	go func() {
		if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks:  app.checks,
		Timeout: 2 * time.Second,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	listings domainlistings.Repository
	worker   *outboxrelay.Worker
	checks   map[string]obs.Check
	closers  []func(context.Context) error
}

func (a *application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}

type storage struct {
	listings    domainlistings.Repository
	outbox      outbox.Outbox
	queue       outbox.Queue
	idempotency middleware.IdempotencyStore
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{checks: make(map[string]obs.Check)}

	store, err := openStorage(ctx, cfg, logger, app)
	if err != nil {
		app.close(logger)
		return nil, err
	}

	var cache rates.Cache = rates.NewMemoryCache()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		redisCache := rates.NewRedisCache(client)
		cache = redisCache
		app.checks["redis"] = redisCache.Ping
		app.closers = append(app.closers, func(context.Context) error { return client.Close() })
	}
	converter := &rates.Converter{
		Source: &rates.HTTPSource{
			URL:    cfg.RatesURL,
			AppID:  cfg.RatesAppID,
			Client: &http.Client{Timeout: cfg.RatesTimeout},
			Logger: logger,
		},
		Cache:  cache,
		TTL:    cfg.RatesCacheTTL,
		Logger: logger,
	}

	buses := wiring.Build(wiring.Deps{
		Listings:    store.listings,
		Outbox:      store.outbox,
		Idempotency: store.idempotency,
		Rates:       converter,
		RateTimeout: cfg.RatesTimeout,
		Logger:      logger,
		Observer:    obs.ObserveBus,
	})

	var producer outboxrelay.Producer = outboxrelay.LogProducer{Logger: logger}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaClientID)
		if err != nil {
			app.close(logger)
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		producer = kp
		app.closers = append(app.closers, func(context.Context) error { return kp.Close() })
	}

	app.listings = store.listings
	app.worker = &outboxrelay.Worker{
		Queue:       store.queue,
		Producer:    producer,
		Logger:      logger,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}
	app.handlers = ginserver.Handlers{
		Listing: ginserver.ListingHandler{Queries: buses.Queries, Commands: buses.Commands, Logger: logger},
		Catalog: ginserver.CatalogHandler{Queries: buses.Queries},
	}
	return app, nil
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger, app *application) (storage, error) {
	switch cfg.StorageMode {
	case config.StorageMongo:
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return storage{}, err
		}
		app.checks["mongo"] = client.Ping
		app.closers = append(app.closers, client.Close)
		idem, err := mongostore.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
		if err != nil {
			return storage{}, err
		}
		relay := outboxrelay.NewStore(client.DB)
		return storage{
			listings:    mongostore.NewListingRepository(client.DB),
			outbox:      relay,
			queue:       relay,
			idempotency: idem,
		}, nil
	case config.StorageS3:
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, logger)
		if err != nil {
			return storage{}, err
		}
		app.checks["s3"] = client.Ping
		repo, err := s3.OpenSnapshot(ctx, client, cfg.S3Object)
		if err != nil {
			return storage{}, err
		}
		box := memory.NewOutbox()
		return storage{
			listings:    repo,
			outbox:      box,
			queue:       box,
			idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
		}, nil
	default:
		box := memory.NewOutbox()
		return storage{
			listings:    memory.NewListingRepository(),
			outbox:      box,
			queue:       box,
			idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
		}, nil
	}
}

func defaultListingFixturesPath() string {
	return filepath.Join("data", "listings.json")
}
