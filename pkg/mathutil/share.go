// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/site-payouts/pkg/constants"
)

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// WithinRelativeTolerance reports whether two values agree to within a
// tolerance scaled by the larger magnitude (absolute below 1).
func WithinRelativeTolerance(val1, val2, tolerance float64) bool {
	scale := math.Max(1, math.Max(math.Abs(val1), math.Abs(val2)))
	return math.Abs(val1-val2) <= tolerance*scale
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// ClampPercentage bounds a percentage to [0, 100]. NaN becomes 0.
func ClampPercentage(percentage float64) float64 {
	switch {
	case math.IsNaN(percentage), percentage < 0:
		return 0
	case percentage > constants.PercentageMultiplier:
		return constants.PercentageMultiplier
	}
	return percentage
}

// Split divides an amount evenly across parts. Zero parts yields zero.
func Split(amount float64, parts int) float64 {
	if parts <= 0 {
		return 0
	}
	return amount / float64(parts)
}

// IsFiniteNonNegative reports whether a value is a usable monetary amount.
func IsFiniteNonNegative(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0) && val >= 0
}
