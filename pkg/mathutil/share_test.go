package mathutil

import (
	"math"
	"testing"
)

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		val1      float64
		val2      float64
		tolerance float64
		expected  bool
	}{
		{"Exactly equal", 1.0, 1.0, 0.1, true},
		{"Within tolerance", 1.0, 1.05, 0.1, true},
		{"Outside tolerance", 1.0, 1.15, 0.1, false},
		{"Zero tolerance exact match", 1.0, 1.0, 0.0, true},
		{"Zero tolerance no match", 1.0, 1.001, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinTolerance(tt.val1, tt.val2, tt.tolerance)
			if result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v",
					tt.val1, tt.val2, tt.tolerance, result, tt.expected)
			}
		})
	}
}

func TestWithinRelativeTolerance(t *testing.T) {
	tests := []struct {
		name     string
		val1     float64
		val2     float64
		expected bool
	}{
		{"Large values off by rounding", 1e12, 1e12 + 1e-4, true},
		{"Large values off by a unit", 1e12, 1e12 + 10, false},
		{"Small values use absolute", 0.5, 0.5 + 1e-10, true},
		{"Small values outside", 0.5, 0.6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinRelativeTolerance(tt.val1, tt.val2, 1e-9)
			if result != tt.expected {
				t.Errorf("WithinRelativeTolerance(%v, %v) = %v, expected %v",
					tt.val1, tt.val2, result, tt.expected)
			}
		})
	}
}

func TestApplyPercentage(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		percentage float64
		expected   float64
	}{
		{"10% of 100000", 100000.0, 10.0, 10000.0},
		{"25% of 200", 200.0, 25.0, 50.0},
		{"100% of value", 100.0, 100.0, 100.0},
		{"0% of value", 100.0, 0.0, 0.0},
		{"Percentage of zero", 0.0, 50.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyPercentage(tt.value, tt.percentage)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("ApplyPercentage(%v, %v) = %v, expected %v",
					tt.value, tt.percentage, result, tt.expected)
			}
		})
	}
}

func TestApplyPercentageDividesPercentFirst(t *testing.T) {
	// the percentage is scaled to a fraction before it multiplies the value
	tests := []struct {
		value      float64
		percentage float64
	}{
		{333333.33, 13},
		{77777.7, 17.5},
		{123456.789, 7},
		{0.3, 3},
	}

	for _, tt := range tests {
		want := tt.value * (tt.percentage / 100)
		got := ApplyPercentage(tt.value, tt.percentage)
		if math.Float64bits(got) != math.Float64bits(want) {
			t.Errorf("ApplyPercentage(%v, %v) = %v, expected %v", tt.value, tt.percentage, got, want)
		}
	}
}

func TestClampPercentage(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"In range", 10, 10},
		{"Lower bound", 0, 0},
		{"Upper bound", 100, 100},
		{"Negative", -5, 0},
		{"Above range", 150, 100},
		{"NaN", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPercentage(tt.input); got != tt.expected {
				t.Errorf("ClampPercentage(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	if got := Split(90000, 2); got != 45000 {
		t.Errorf("Split(90000, 2) = %v, expected 45000", got)
	}
	if got := Split(100, 0); got != 0 {
		t.Errorf("Split(100, 0) = %v, expected 0", got)
	}
	if got := Split(100, -1); got != 0 {
		t.Errorf("Split(100, -1) = %v, expected 0", got)
	}
}

func TestIsFiniteNonNegative(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Zero", 0, true},
		{"Positive", 12.5, true},
		{"Negative", -1, false},
		{"NaN", math.NaN(), false},
		{"Positive infinity", math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFiniteNonNegative(tt.input); got != tt.expected {
				t.Errorf("IsFiniteNonNegative(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}
