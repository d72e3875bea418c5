// Package core holds the budget domain: goals, transactions, calendar
// dates, money parsing and the aggregation over transactions.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input to an exact decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. The sign
// is kept; callers decide whether negative or zero amounts are acceptable.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.345, nil
//	ParseAmount("abc")    -> error wrapping ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ",")+strings.Count(s, ".") > 1 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals for display.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
