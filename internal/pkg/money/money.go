// Package money holds the rounding and formatting rules shared by every
// monetary figure the service computes or renders.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept on displayed amounts.
const Places = 2

var Zero = decimal.Zero

// Round rounds half away from zero to two places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// ParseLenient converts a stored or user-supplied amount. Blank or malformed
// input yields zero with ok=false so callers can count what they skipped.
func ParseLenient(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
