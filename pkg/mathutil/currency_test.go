package mathutil

import (
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{
			name:     "Round down",
			input:    123.454,
			expected: 123.45,
		},
		{
			name:     "Round up",
			input:    123.455,
			expected: 123.46,
		},
		{
			name:     "Negative value",
			input:    -0.005,
			expected: -0.01,
		},
		{
			name:     "Already two decimals",
			input:    99.99,
			expected: 99.99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Round(tt.input); result != tt.expected {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exact zero", 0.0, true},
		{"Within tolerance", 0.005, true},
		{"Negative within tolerance", -0.009, true},
		{"Outside tolerance", 0.02, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsZero(tt.input); result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(100.0, 100.0000005, 1e-6) {
		t.Errorf("WithinTolerance should accept values within tolerance")
	}
	if WithinTolerance(100.0, 100.1, 1e-6) {
		t.Errorf("WithinTolerance should reject values outside tolerance")
	}
}

func TestMinMax(t *testing.T) {
	if Min(1.5, 2.5) != 1.5 {
		t.Errorf("Min(1.5, 2.5) should be 1.5")
	}
	if Max(1.5, 2.5) != 2.5 {
		t.Errorf("Max(1.5, 2.5) should be 2.5")
	}
}
