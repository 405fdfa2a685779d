package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rentprice/internal/app/commands"
)

var ErrMissingPrototype = errors.New("middleware: idempotent command has no result prototype")

// IdempotentCommand is implemented by commands a client may safely retry.
// ResultPrototype returns a pointer the stored result is decoded into; it
// must have the same type the handler returns.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	ResultPrototype() any
}

// IdempotencyRecord is one remembered command outcome. Key is already scoped
// by command key.
type IdempotencyRecord struct {
	Key        string
	Command    string
	Payload    []byte
	OccurredAt time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

// ResultCodec serializes handler results for storage. JSON is used when nil.
type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONResultCodec) Decode(data []byte, out any) error { return json.Unmarshal(data, out) }

type idempotency struct {
	store IdempotencyStore
	codec ResultCodec
	now   func() time.Time
}

// Idempotency replays the stored result when an IdempotentCommand arrives
// again with a key already seen for the same command. Failed commands are not
// remembered, so a rejected request can be retried with the same key.
func Idempotency(store IdempotencyStore, codec ResultCodec) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	m := idempotency{store: store, codec: codec, now: func() time.Time { return time.Now().UTC() }}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			idCmd, ok := cmd.(IdempotentCommand)
			if !ok || idCmd.IdempotencyKey() == "" {
				return next.Dispatch(ctx, cmd)
			}
			key := cmd.Key() + ":" + idCmd.IdempotencyKey()
			if res, found, err := m.replay(ctx, key, idCmd); err != nil || found {
				return res, err
			}
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := m.remember(ctx, key, cmd.Key(), res); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}

func (m idempotency) replay(ctx context.Context, key string, cmd IdempotentCommand) (any, bool, error) {
	rec, found, err := m.store.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	out := cmd.ResultPrototype()
	if out == nil {
		return nil, true, ErrMissingPrototype
	}
	if len(rec.Payload) > 0 {
		if err := m.codec.Decode(rec.Payload, out); err != nil {
			return nil, true, err
		}
	}
	return out, true, nil
}

func (m idempotency) remember(ctx context.Context, key, command string, res any) error {
	rec := IdempotencyRecord{Key: key, Command: command, OccurredAt: m.now()}
	if res != nil {
		payload, err := m.codec.Encode(res)
		if err != nil {
			return err
		}
		rec.Payload = payload
	}
	return m.store.Save(ctx, rec)
}
