package filter

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Operator names a comparison in the closed dispatch tables below.
type Operator string

const (
	OpEqual        Operator = "e"
	OpGreater      Operator = "gt"
	OpGreaterEqual Operator = "gte"
	OpLess         Operator = "lt"
	OpLessEqual    Operator = "lte"
	OpIn           Operator = "in"
	OpTextEqual    Operator = "eq"
)

var numericOps = map[Operator]func(a, b decimal.Decimal) bool{
	OpEqual:        func(a, b decimal.Decimal) bool { return a.Equal(b) },
	OpGreater:      func(a, b decimal.Decimal) bool { return a.GreaterThan(b) },
	OpGreaterEqual: func(a, b decimal.Decimal) bool { return a.GreaterThanOrEqual(b) },
	OpLess:         func(a, b decimal.Decimal) bool { return a.LessThan(b) },
	OpLessEqual:    func(a, b decimal.Decimal) bool { return a.LessThanOrEqual(b) },
}

var textOps = map[Operator]func(value string, operands []string) bool{
	OpIn: func(value string, operands []string) bool {
		for _, o := range operands {
			if value == o {
				return true
			}
		}
		return false
	},
	OpTextEqual: func(value string, operands []string) bool {
		return len(operands) == 1 && strings.EqualFold(value, operands[0])
	},
}

// IsNumeric reports whether op compares numbers.
func (op Operator) IsNumeric() bool {
	_, ok := numericOps[op]
	return ok
}

// compareNumber applies op to a and b. Unknown operators never match.
func compareNumber(op Operator, a, b decimal.Decimal) bool {
	fn, ok := numericOps[op]
	if !ok {
		return false
	}
	return fn(a, b)
}

func compareText(op Operator, value string, operands []string) bool {
	fn, ok := textOps[op]
	if !ok {
		return false
	}
	return fn(value, operands)
}
