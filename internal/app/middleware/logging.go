package middleware

import (
	"context"
	"log/slog"
	"time"

	"rentprice/internal/app/commands"
	"rentprice/internal/app/queries"
)

// Observer receives the outcome of every message passing through the bus.
type Observer func(kind, key string, elapsed time.Duration, err error)

// CommandLogging logs each dispatched command with its duration.
func CommandLogging(logger *slog.Logger, observe Observer) CommandMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			report(ctx, logger, observe, "command", cmd.Key(), time.Since(start), err)
			return res, err
		})
	}
}

// QueryLogging logs each query at debug level, failures at warn.
func QueryLogging(logger *slog.Logger, observe Observer) QueryMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			report(ctx, logger, observe, "query", q.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func report(ctx context.Context, logger *slog.Logger, observe Observer, kind, key string, elapsed time.Duration, err error) {
	if observe != nil {
		observe(kind, key, elapsed, err)
	}
	if err != nil {
		logger.WarnContext(ctx, kind+" failed", "key", key, "duration", elapsed, "error", err)
		return
	}
	level := slog.LevelDebug
	if kind == "command" {
		level = slog.LevelInfo
	}
	logger.Log(ctx, level, kind+" handled", "key", key, "duration", elapsed)
}
