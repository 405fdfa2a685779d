// Package commands routes write requests to exactly one typed handler.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrHandlerNotFound = errors.New("commands: handler not found")
	ErrInvalidCommand  = errors.New("commands: invalid command for handler")
	ErrResultType      = errors.New("commands: result type mismatch")
	ErrNilBus          = errors.New("commands: nil bus")
)

// Command is a write intent. Key selects the handler.
type Command interface {
	Key() string
}

type Handler[C Command, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc[C Command, R any] func(ctx context.Context, cmd C) (R, error)

func (f HandlerFunc[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return f(ctx, cmd)
}

// Bus is what middleware wraps and HTTP handlers dispatch to.
type Bus interface {
	Dispatch(ctx context.Context, cmd Command) (any, error)
}

type route func(ctx context.Context, cmd Command) (any, error)

// InMemoryBus keeps one route per command key. Routes are registered at
// startup; Dispatch is safe for concurrent use.
type InMemoryBus struct {
	mu     sync.RWMutex
	routes map[string]route
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{routes: make(map[string]route)}
}

// RegisterHandler binds a typed handler to key. Registering the same key twice panics.
func RegisterHandler[C Command, R any](bus *InMemoryBus, key string, handler Handler[C, R]) {
	if bus == nil {
		panic("commands: nil bus")
	}
	if key == "" {
		panic("commands: empty key registration")
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, exists := bus.routes[key]; exists {
		panic(fmt.Sprintf("commands: duplicate registration for %q", key))
	}
	bus.routes[key] = func(ctx context.Context, raw Command) (any, error) {
		cmd, ok := raw.(C)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %T", ErrInvalidCommand, key, raw)
		}
		return handler.Handle(ctx, cmd)
	}
}

func (b *InMemoryBus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	b.mu.RLock()
	r, ok := b.routes[cmd.Key()]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, cmd.Key())
	}
	return r(ctx, cmd)
}

// Keys lists registered command keys in sorted order.
func (b *InMemoryBus) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.routes))
	for k := range b.routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dispatch sends cmd through bus and asserts the result type. A nil result
// yields the zero R.
func Dispatch[C Command, R any](ctx context.Context, bus Bus, cmd C) (R, error) {
	var zero R
	if bus == nil {
		return zero, ErrNilBus
	}
	res, err := bus.Dispatch(ctx, cmd)
	if err != nil || res == nil {
		return zero, err
	}
	value, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T", ErrResultType, cmd.Key(), res)
	}
	return value, nil
}
