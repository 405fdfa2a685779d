package listings

import (
	"errors"
	"fmt"
	"strings"

	"rentprice/internal/domain/shared/money"
)

var (
	ErrRequiredFields  = errors.New("title, base_price, currency, market are required fields")
	ErrNegativePrice   = errors.New("base_price must be non-negative")
	ErrUnknownMarket   = errors.New("unknown market")
	ErrUnknownCurrency = errors.New("unknown currency")
)

// ValidationError collects every problem found in a set of attributes.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := e.Messages()
	return "listings: invalid listing: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return e.Problems
}

// Messages renders the problems for clients.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, p.Error())
	}
	return out
}

// Validate checks field presence and registry membership.
func Validate(attrs Attributes) error {
	var problems []error
	if strings.TrimSpace(attrs.Title) == "" || attrs.BasePrice == nil ||
		strings.TrimSpace(attrs.Currency) == "" || strings.TrimSpace(attrs.Market) == "" {
		problems = append(problems, ErrRequiredFields)
	}
	if attrs.BasePrice != nil && *attrs.BasePrice < 0 {
		problems = append(problems, ErrNegativePrice)
	}
	if m := strings.TrimSpace(attrs.Market); m != "" {
		if _, ok := LookupMarket(m); !ok {
			problems = append(problems, fmt.Errorf("%w: %s", ErrUnknownMarket, m))
		}
	}
	if c := strings.TrimSpace(attrs.Currency); c != "" && !money.IsKnownCurrency(c) {
		problems = append(problems, fmt.Errorf("%w: %s", ErrUnknownCurrency, c))
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
