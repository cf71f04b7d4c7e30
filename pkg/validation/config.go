package validation

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/spf13/cast"
)

// ValidateLevelValues reports level entries that will be priced at zero:
// keys that are not positive integers and values that are not finite,
// non-negative numbers within the ceiling.
func ValidateLevelValues(levelValues map[string]any, ceiling float64) []string {
	keys := make([]string, 0, len(levelValues))
	for k := range levelValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var warnings []string
	for _, key := range keys {
		if level, err := strconv.Atoi(key); err != nil || level < 1 {
			warnings = append(warnings, fmt.Sprintf("Level key %q is not a positive integer - it will never match a site", key))
			continue
		}
		raw := levelValues[key]
		if _, isBool := raw.(bool); isBool || raw == nil {
			warnings = append(warnings, fmt.Sprintf("Level %s has a non-numeric value - it will be paid as zero", key))
			continue
		}
		v, err := cast.ToFloat64E(raw)
		switch {
		case err != nil, math.IsNaN(v), math.IsInf(v, 0):
			warnings = append(warnings, fmt.Sprintf("Level %s has a non-numeric value - it will be paid as zero", key))
		case v < 0:
			warnings = append(warnings, fmt.Sprintf("Level %s has a negative value (%v) - it will be paid as zero", key, v))
		case ceiling > 0 && v > ceiling:
			warnings = append(warnings, fmt.Sprintf("Level %s value %v exceeds the ceiling %v - it will be paid as zero", key, v, ceiling))
		}
	}
	return warnings
}

// ValidateSalvagerPercent returns a warning when the percentage will be clamped.
func ValidateSalvagerPercent(percent float64) string {
	if math.IsNaN(percent) || percent < 0 || percent > 100 {
		return fmt.Sprintf("Salvager percent %v is outside 0-100 - it will be clamped", percent)
	}
	return ""
}
