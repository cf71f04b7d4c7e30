// Package format renders monetary amounts for display. Rounding happens only
// here, never in the allocation itself.
package format

import (
	"strings"

	"github.com/iwvelando/site-payouts/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds an amount half away from zero to the given number of
// decimal places.
func Round(amount float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(places)
}

// Amount returns the amount with two decimals and thousands separators
// (e.g., "-1,234.56").
func Amount(amount float64) string {
	rounded := Round(amount, constants.DecimalPrecision)
	text := rounded.Abs().StringFixed(constants.DecimalPrecision)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + group(text)
}

// Currency returns the amount followed by a currency code (e.g., "1,500.00 ISK").
// An empty code returns just the amount.
func Currency(amount float64, code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return Amount(amount)
	}
	return Amount(amount) + " " + code
}

// Plain returns the rounded amount without separators, for machine-readable output.
func Plain(amount float64) string {
	return Round(amount, constants.DecimalPrecision).StringFixed(constants.DecimalPrecision)
}

func group(fixed string) string {
	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]
	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}
	if len(parts) == 2 {
		return intPart + "." + parts[1]
	}
	return intPart
}
