// Package financial provides periodic discounting and internal-rate-of-return
// calculations for cash-flow series.
package financial

import (
	"fmt"
	"math"

	"github.com/iwvelando/cashflow-eir/pkg/constants"
)

// NetPresentValue returns the present value of a periodic cash-flow series
// discounted at the given per-period rate. values[0] occurs at the valuation
// date and is not discounted.
func NetPresentValue(rate float64, values []float64) float64 {
	npv := 0.0
	for i, value := range values {
		npv += value / math.Pow(1+rate, float64(i))
	}
	return npv
}

// dNetPresentValue returns the first derivative of NetPresentValue with
// respect to the rate.
func dNetPresentValue(rate float64, values []float64) float64 {
	dnpv := 0.0
	for i, value := range values {
		if i == 0 {
			continue
		}
		dnpv -= value * float64(i) / math.Pow(1+rate, float64(i+1))
	}
	return dnpv
}

// InternalRateOfReturn returns the per-period rate that zeroes the present
// value of the cash-flow series. It requires at least one positive and one
// negative value, attempts Newton-Raphson from the given guess, and falls
// back to bisection over an expanding bracket when Newton fails to converge.
func InternalRateOfReturn(values []float64, guess float64) (float64, error) {
	if len(values) < 2 {
		return 0, fmt.Errorf("cash-flow series too short (%d values)", len(values))
	}
	hasPositive := false
	hasNegative := false
	for _, value := range values {
		if value > 0 {
			hasPositive = true
		}
		if value < 0 {
			hasNegative = true
		}
	}
	if !hasPositive || !hasNegative {
		return 0, fmt.Errorf("cash-flow series must contain at least one positive and one negative value")
	}

	rate, err := newton(guess, values)
	if err != nil {
		rate, err = bisect(values)
		if err != nil {
			return 0, fmt.Errorf("rate solve did not converge: %w", err)
		}
	}

	// A rate is only a root if it actually zeroes the series; a solver that
	// merely ran out of interval must not pass its endpoint off as converged.
	if residual := NetPresentValue(rate, values); math.Abs(residual) > residualTolerance(values) {
		return 0, fmt.Errorf("rate %v does not zero the series (residual %v)", rate, residual)
	}
	return rate, nil
}

// residualTolerance scales the acceptable NPV residual at a solved rate to
// the overall magnitude of the series.
func residualTolerance(values []float64) float64 {
	scale := 0.0
	for _, value := range values {
		scale += math.Abs(value)
	}
	return scale * constants.ResidualToleranceRatio
}

func newton(guess float64, values []float64) (float64, error) {
	rate := guess
	for i := 0; i < constants.MaxSolverIterations; i++ {
		derivative := dNetPresentValue(rate, values)
		if derivative == 0 || math.IsNaN(derivative) || math.IsInf(derivative, 0) {
			return 0, fmt.Errorf("derivative vanished at rate %v", rate)
		}
		next := rate - NetPresentValue(rate, values)/derivative
		// Discount factors are undefined at or below -100%.
		if next <= -1 || math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, fmt.Errorf("iteration left the valid rate domain at %v", next)
		}
		if math.Abs(next-rate) < constants.RateTolerance {
			return next, nil
		}
		rate = next
	}
	return 0, fmt.Errorf("exceeded %d iterations", constants.MaxSolverIterations)
}

func bisect(values []float64) (float64, error) {
	// Discount factors just above -100% overflow for long series; walk the
	// lower bound toward zero until its NPV is finite.
	lo := -1 + constants.RateTolerance
	flo := NetPresentValue(lo, values)
	for i := 0; math.IsNaN(flo) || math.IsInf(flo, 0); i++ {
		if i >= 20 {
			return 0, fmt.Errorf("no finite lower bracket above -100%%")
		}
		lo = -1 + (1+lo)*10
		flo = NetPresentValue(lo, values)
	}
	if flo == 0 {
		return lo, nil
	}

	// Expand the upper bound until the NPV changes sign across the bracket.
	hi := 0.1
	fhi := NetPresentValue(hi, values)
	for i := 0; flo*fhi > 0; i++ {
		if i >= 20 {
			return 0, fmt.Errorf("no sign change found in [%v, %v]", lo, hi)
		}
		hi *= 2
		fhi = NetPresentValue(hi, values)
	}
	if fhi == 0 {
		return hi, nil
	}
	// Bisection is only sound across a genuine finite sign change.
	if !(flo*fhi < 0) {
		return 0, fmt.Errorf("no sign change found in [%v, %v]", lo, hi)
	}

	for i := 0; i < constants.MaxBisectionIterations; i++ {
		mid := (lo + hi) / 2
		fmid := NetPresentValue(mid, values)
		if fmid == 0 || (hi-lo)/2 < constants.RateTolerance {
			return mid, nil
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo = mid
			flo = fmid
		}
	}
	return 0, fmt.Errorf("exceeded %d bisection iterations", constants.MaxBisectionIterations)
}
