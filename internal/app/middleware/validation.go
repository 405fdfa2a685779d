package middleware

import (
	"context"

	"rentprice/internal/app/commands"
	"rentprice/internal/app/queries"
)

// Validator rejects malformed messages before they reach a handler.
type Validator interface {
	Validate(ctx context.Context, message any) error
}

func Validation(v Validator) CommandMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := v.Validate(ctx, cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

// QueryValidation is the read-side counterpart of Validation.
func QueryValidation(v Validator) QueryMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := v.Validate(ctx, q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, message any) error

func (f ValidatorFunc) Validate(ctx context.Context, message any) error {
	return f(ctx, message)
}

// SelfValidating is implemented by messages that can check their own fields.
type SelfValidating interface {
	Validate() error
}

// SelfValidator calls Validate on messages that implement SelfValidating and
// passes everything else through.
var SelfValidator Validator = ValidatorFunc(func(_ context.Context, message any) error {
	if v, ok := message.(SelfValidating); ok {
		return v.Validate()
	}
	return nil
})
