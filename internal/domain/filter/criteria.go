// Package filter parses listing query parameters into constraints and
// evaluates listings against them.
package filter

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrMalformedFilter = errors.New("filter: malformed filter value")

// Price bounds must fit an int64 price with at most 18 fractional digits.
const (
	minPriceExponent = -18
	maxPriceExponent = 18
)

var maxPriceBound = decimal.NewFromInt(math.MaxInt64)

// Field is a listing attribute that can be filtered on.
type Field string

const (
	FieldMarket    Field = "market"
	FieldCurrency  Field = "currency"
	FieldBasePrice Field = "base_price"
)

// Constraint is a single (field, operator, value) condition.
type Constraint struct {
	Field    Field
	Operator Operator
	Values   []string
	Number   decimal.Decimal
}

func (c Constraint) String() string {
	if c.Operator.IsNumeric() {
		return fmt.Sprintf("%s.%s=%s", c.Field, c.Operator, c.Number)
	}
	return fmt.Sprintf("%s %s %s", c.Field, c.Operator, strings.Join(c.Values, ","))
}

// Criteria is the parsed form of a query. The zero value matches every listing.
type Criteria struct {
	constraints []Constraint
}

// Empty reports whether c matches every listing.
func (c Criteria) Empty() bool {
	return len(c.constraints) == 0
}

// Parse turns raw query parameters into Criteria.
//
// "market" holds a comma-separated set, "currency" a single code and
// "base_price.<op>" a number compared with e, gt, gte, lt or lte. Other keys,
// including base_price with an unknown operator, are ignored. Price bounds
// with an exponent outside [-18, 18] or beyond the int64 range are malformed.
// Currency comparison is case-insensitive, unlike an exact string match.
func Parse(params map[string]string) (Criteria, error) {
	var cs []Constraint
	for key, raw := range params {
		switch {
		case key == string(FieldMarket):
			if set := splitSet(raw); len(set) > 0 {
				cs = append(cs, Constraint{Field: FieldMarket, Operator: OpIn, Values: set})
			}
		case key == string(FieldCurrency):
			if v := strings.TrimSpace(raw); v != "" {
				cs = append(cs, Constraint{Field: FieldCurrency, Operator: OpTextEqual, Values: []string{v}})
			}
		case strings.HasPrefix(key, string(FieldBasePrice)+"."):
			op := Operator(strings.TrimPrefix(key, string(FieldBasePrice)+"."))
			if !op.IsNumeric() {
				continue
			}
			n, err := parsePriceBound(raw)
			if err != nil {
				return Criteria{}, fmt.Errorf("%w: %s=%q", ErrMalformedFilter, key, raw)
			}
			cs = append(cs, Constraint{Field: FieldBasePrice, Operator: op, Number: n})
		}
	}
	sortConstraints(cs)
	return Criteria{constraints: cs}, nil
}

func parsePriceBound(raw string) (decimal.Decimal, error) {
	n, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if exp := n.Exponent(); exp < minPriceExponent || exp > maxPriceExponent {
		return decimal.Decimal{}, fmt.Errorf("exponent %d out of range", exp)
	}
	if n.Abs().GreaterThan(maxPriceBound) {
		return decimal.Decimal{}, errors.New("out of int64 range")
	}
	return n, nil
}

func splitSet(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortConstraints(cs []Constraint) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Field != cs[j].Field {
			return cs[i].Field < cs[j].Field
		}
		return cs[i].Operator < cs[j].Operator
	})
}
