package financial

import (
	"math"
	"testing"
)

func TestNetPresentValue(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		values   []float64
		expected float64
	}{
		{
			name:     "Zero rate sums the series",
			rate:     0,
			values:   []float64{-100, 50, 60},
			expected: 10,
		},
		{
			name:     "Single discounted flow",
			rate:     0.1,
			values:   []float64{0, 110},
			expected: 100,
		},
		{
			name:     "Leading flow undiscounted",
			rate:     0.05,
			values:   []float64{100},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NetPresentValue(tt.rate, tt.values)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("NetPresentValue(%v, %v) = %v, expected %v", tt.rate, tt.values, result, tt.expected)
			}
		})
	}
}

func TestInternalRateOfReturn(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{
			name:     "Single period 10 percent",
			values:   []float64{-100, 110},
			expected: 0.10,
		},
		{
			name:     "Break even",
			values:   []float64{-1000, 400, 600},
			expected: 0,
		},
		{
			name:     "Two period known root",
			values:   []float64{-100, 0, 121},
			expected: 0.10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := InternalRateOfReturn(tt.values, 0.05)
			if err != nil {
				t.Fatalf("InternalRateOfReturn(%v) unexpected error: %v", tt.values, err)
			}
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("InternalRateOfReturn(%v) = %v, expected %v", tt.values, result, tt.expected)
			}
		})
	}
}

func TestInternalRateOfReturnAnnuity(t *testing.T) {
	// A loan of 100000 repaid by the closed-form annuity at 0.25% monthly over
	// 360 months must solve back to 0.25% per period.
	principal := 100000.0
	monthlyRate := 0.0025
	term := 360
	power := math.Pow(1+monthlyRate, float64(term))
	payment := principal * monthlyRate * power / (power - 1)

	values := make([]float64, term+1)
	values[0] = -principal
	for m := 1; m <= term; m++ {
		values[m] = payment
	}

	result, err := InternalRateOfReturn(values, 0.01)
	if err != nil {
		t.Fatalf("InternalRateOfReturn unexpected error: %v", err)
	}
	if math.Abs(result-monthlyRate) > 1e-7 {
		t.Errorf("InternalRateOfReturn = %v, expected %v", result, monthlyRate)
	}
}

func TestInternalRateOfReturnSignInvariance(t *testing.T) {
	// Negating the whole series must not move the root; the engine produces
	// outflow-positive series which are the mirror of a lender's view.
	values := []float64{100, -60, -60}
	mirrored := []float64{-100, 60, 60}

	a, err := InternalRateOfReturn(values, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := InternalRateOfReturn(mirrored, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(a-b) > 1e-7 {
		t.Errorf("roots differ across negation: %v vs %v", a, b)
	}
}

func TestInternalRateOfReturnErrors(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{
			name:   "All positive",
			values: []float64{100, 50, 25},
		},
		{
			name:   "All negative",
			values: []float64{-100, -50},
		},
		{
			name:   "All zero",
			values: []float64{0, 0, 0},
		},
		{
			name:   "Too short",
			values: []float64{-100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := InternalRateOfReturn(tt.values, 0.05); err == nil {
				t.Errorf("InternalRateOfReturn(%v) expected error", tt.values)
			}
		})
	}
}

func TestInternalRateOfReturnNoRoot(t *testing.T) {
	// This series has a sign change but no real root: its NPV is negative at
	// every rate. The trailing zeros stretch it to engine-horizon length,
	// where the discount factors near -100% overflow; the solver must still
	// report failure rather than hand back a rate that zeroes nothing.
	values := make([]float64, 62)
	values[0] = -100
	values[1] = 300
	values[2] = -250

	rate, err := InternalRateOfReturn(values, 0.005)
	if err == nil {
		t.Fatalf("InternalRateOfReturn returned %v for a rootless series, expected error", rate)
	}

	// The same series without the padding must fail identically.
	if _, err := InternalRateOfReturn(values[:3], 0.005); err == nil {
		t.Errorf("InternalRateOfReturn expected error for the unpadded rootless series")
	}
}

func TestInternalRateOfReturnPaddedRoot(t *testing.T) {
	// Trailing zeros must not disturb a genuine root.
	values := make([]float64, 75)
	values[0] = -100
	values[60] = 200

	rate, err := InternalRateOfReturn(values, 0.005)
	if err != nil {
		t.Fatalf("InternalRateOfReturn unexpected error: %v", err)
	}
	expected := math.Pow(2, 1.0/60) - 1
	if math.Abs(rate-expected) > 1e-7 {
		t.Errorf("InternalRateOfReturn = %v, expected %v", rate, expected)
	}
	if residual := NetPresentValue(rate, values); math.Abs(residual) > 1e-4 {
		t.Errorf("NPV at solved rate should be ~0, got %v", residual)
	}
}

func TestPayoffIdentity(t *testing.T) {
	// At the solved rate, the present value of the flows after the valuation
	// date must cancel the initial flow exactly.
	values := []float64{-1000, 600, 600}
	rate, err := InternalRateOfReturn(values, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if residual := NetPresentValue(rate, values); math.Abs(residual) > 1e-4 {
		t.Errorf("NPV at solved rate should be ~0, got %v", residual)
	}

	future := append([]float64{0}, values[1:]...)
	pv := NetPresentValue(rate, future)
	if math.Abs(pv-(-values[0])) > 1e-4 {
		t.Errorf("PV of future flows %v should equal negated initial flow %v", pv, -values[0])
	}
}
