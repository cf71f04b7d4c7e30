package allocation

import (
	"strconv"

	"github.com/iwvelando/site-payouts/pkg/constants"
	"github.com/iwvelando/site-payouts/pkg/mathutil"
	"github.com/spf13/cast"
)

// Key returns the map key used for a level.
func Key(level int) string {
	return strconv.Itoa(level)
}

// Value returns the monetary value of a level. Missing, non-numeric,
// negative, non-finite and above-ceiling values all come back as zero.
func (lv LevelValues) Value(level int, ceiling float64) float64 {
	raw, ok := lv[Key(level)]
	if !ok {
		return 0
	}
	return coerceAmount(raw, ceiling)
}

func coerceAmount(raw any, ceiling float64) float64 {
	switch raw.(type) {
	case nil, bool:
		// cast turns true into 1
		return 0
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || !mathutil.IsFiniteNonNegative(v) {
		return 0
	}
	if ceiling > 0 && v > ceiling {
		return 0
	}
	return v
}

// Percent returns the salvager percentage clamped to [0, 100], or the
// default when unset.
func (c Config) Percent() float64 {
	if c.SalvagerPercent == nil {
		return constants.DefaultSalvagerPercent
	}
	return mathutil.ClampPercentage(*c.SalvagerPercent)
}

// DefaultConfig returns the settings a new tenant starts with: levels 1
// through 10 worth 100000 per level, salvagers off.
func DefaultConfig() Config {
	levels := make(LevelValues, constants.DefaultLevelCount)
	for i := 1; i <= constants.DefaultLevelCount; i++ {
		levels[Key(i)] = float64(i) * constants.DefaultLevelStep
	}
	percent := constants.DefaultSalvagerPercent
	auto := true
	return Config{
		LevelValues:     levels,
		HasSalvager:     false,
		SalvagerPercent: &percent,
		Currency:        constants.DefaultCurrency,
		AutoCalculate:   &auto,
	}
}

// DefaultData returns an empty roster with DefaultConfig.
func DefaultData() Data {
	return Data{
		Config:  DefaultConfig(),
		Members: []Member{},
		Sites:   []Site{},
	}
}
