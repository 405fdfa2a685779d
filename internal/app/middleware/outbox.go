package middleware

import (
	"context"
	"log/slog"

	"rentprice/internal/app/commands"
	"rentprice/internal/app/outbox"
)

// OutboxFlush flushes box after each successful command. The write has
// already happened by then, so a flush failure is logged and the result is
// still returned; unflushed records stay queued for the relay.
func OutboxFlush(box outbox.Outbox, logger *slog.Logger) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if flushErr := box.Flush(ctx); flushErr != nil {
				logger.WarnContext(ctx, "outbox flush failed", "key", cmd.Key(), "error", flushErr)
			}
			return res, nil
		})
	}
}
