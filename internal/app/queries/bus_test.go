package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countQuery struct{ Market string }

func (countQuery) Key() string { return "test.count" }

func TestAskReturnsTypedResult(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler(bus, countQuery{}.Key(), HandlerFunc[countQuery, int](func(_ context.Context, q countQuery) (int, error) {
		if q.Market == "" {
			return 0, errors.New("market required")
		}
		return len(q.Market), nil
	}))

	n, err := Ask[countQuery, int](context.Background(), bus, countQuery{Market: "paris"})
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = Ask[countQuery, int](context.Background(), bus, countQuery{})
	assert.EqualError(t, err, "market required")

	_, err = Ask[countQuery, string](context.Background(), bus, countQuery{Market: "x"})
	assert.ErrorIs(t, err, ErrResultType)

	assert.Equal(t, []string{"test.count"}, bus.Keys())
	assert.Panics(t, func() {
		RegisterHandler(bus, countQuery{}.Key(), HandlerFunc[countQuery, int](func(context.Context, countQuery) (int, error) { return 0, nil }))
	})
}

func TestAskUnknownQuery(t *testing.T) {
	_, err := Ask[countQuery, int](context.Background(), NewInMemoryBus(), countQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
	_, err = Ask[countQuery, int](context.Background(), nil, countQuery{})
	assert.ErrorIs(t, err, ErrNilBus)
}
