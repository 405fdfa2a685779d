package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renameCommand struct{ Title string }

func (renameCommand) Key() string { return "test.rename" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.other" }

func TestDispatchRoutesByKey(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler(bus, renameCommand{}.Key(), HandlerFunc[renameCommand, string](func(_ context.Context, cmd renameCommand) (string, error) {
		return "renamed to " + cmd.Title, nil
	}))

	got, err := Dispatch[renameCommand, string](context.Background(), bus, renameCommand{Title: "loft"})
	require.NoError(t, err)
	assert.Equal(t, "renamed to loft", got)

	_, err = Dispatch[otherCommand, string](context.Background(), bus, otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = Dispatch[renameCommand, int](context.Background(), bus, renameCommand{})
	assert.ErrorIs(t, err, ErrResultType)

	_, err = Dispatch[renameCommand, string](context.Background(), nil, renameCommand{})
	assert.ErrorIs(t, err, ErrNilBus)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	bus := NewInMemoryBus()
	h := HandlerFunc[renameCommand, string](func(context.Context, renameCommand) (string, error) { return "", nil })
	RegisterHandler(bus, "test.rename", h)
	assert.Panics(t, func() { RegisterHandler(bus, "test.rename", h) })
	assert.Panics(t, func() { RegisterHandler(bus, "", h) })
	RegisterHandler(bus, "test.alias", h)
	assert.Equal(t, []string{"test.alias", "test.rename"}, bus.Keys())
}

func TestRegisteredHandlerRejectsWrongType(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler(bus, "test.other", HandlerFunc[renameCommand, string](func(context.Context, renameCommand) (string, error) { return "", nil }))
	_, err := bus.Dispatch(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrInvalidCommand)
}
