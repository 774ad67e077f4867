// Package simulation holds the loan-by-month matrices and the forward
// cash-flow recurrence that fills them.
package simulation

import (
	"strings"
)

// Series enumerates the tracked per-loan, per-month quantities. The fixed
// enumeration replaces stringly-typed series lookups while keeping
// select-by-name behavior for the export layer.
type Series int

const (
	SeriesScheduledPayment Series = iota
	SeriesEarlyRepayment
	SeriesStatementInterest
	SeriesCumulativeAmortisation
	SeriesCumulativePrepayment
	SeriesCashFlow
	SeriesProfitAndLoss
	SeriesEarlyRepaymentCharge
	SeriesStatementAmount
	SeriesAdjustments
	SeriesRate

	seriesCount
)

var seriesNames = map[Series]string{
	SeriesScheduledPayment:       "scheduled payment",
	SeriesEarlyRepayment:         "early repayment",
	SeriesStatementInterest:      "statement interest",
	SeriesCumulativeAmortisation: "cumulative amortisation",
	SeriesCumulativePrepayment:   "cumulative prepayment",
	SeriesCashFlow:               "cashflow",
	SeriesProfitAndLoss:          "profit and loss",
	SeriesEarlyRepaymentCharge:   "early repayment charge",
	SeriesStatementAmount:        "statement amount",
	SeriesAdjustments:            "adjustments",
	SeriesRate:                   "interest rate",
}

// String returns the series' display name.
func (s Series) String() string {
	if name, ok := seriesNames[s]; ok {
		return name
	}
	return "unknown"
}

// SeriesByName resolves a display name (case-insensitive, whitespace-trimmed)
// back to its series.
func SeriesByName(name string) (Series, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for s, n := range seriesNames {
		if n == normalized {
			return s, true
		}
	}
	return 0, false
}

// AllSeries returns every tracked series in declaration order.
func AllSeries() []Series {
	all := make([]Series, seriesCount)
	for i := range all {
		all[i] = Series(i)
	}
	return all
}

// Matrix is a dense loan-indexed by month-indexed array, allocated once at
// known shape and mutated strictly left-to-right in the month dimension.
type Matrix struct {
	loans  int
	months int
	data   []float64
}

// NewMatrix allocates a zero-filled loans x months matrix.
func NewMatrix(loans, months int) *Matrix {
	return &Matrix{
		loans:  loans,
		months: months,
		data:   make([]float64, loans*months),
	}
}

// Loans returns the row count.
func (m *Matrix) Loans() int { return m.loans }

// Months returns the column count.
func (m *Matrix) Months() int { return m.months }

// At returns the value for a loan and month.
func (m *Matrix) At(loan, month int) float64 {
	return m.data[loan*m.months+month]
}

// Set stores the value for a loan and month.
func (m *Matrix) Set(loan, month int, value float64) {
	m.data[loan*m.months+month] = value
}

// Add accumulates into the value for a loan and month.
func (m *Matrix) Add(loan, month int, value float64) {
	m.data[loan*m.months+month] += value
}

// Row returns the loan's full month vector. The slice aliases the matrix
// backing store; callers must not mutate it.
func (m *Matrix) Row(loan int) []float64 {
	return m.data[loan*m.months : (loan+1)*m.months]
}
