// Package valuation computes per-loan EIR, NPV, and reporting-window P&L
// from a completed cash-flow matrix.
package valuation

import (
	"fmt"
	"time"

	"github.com/iwvelando/cashflow-eir/internal/config"
	"github.com/iwvelando/cashflow-eir/internal/simulation"
	"github.com/iwvelando/cashflow-eir/pkg/datetime"
	"github.com/iwvelando/cashflow-eir/pkg/financial"
	"go.uber.org/zap"
)

// irrGuess is the starting monthly rate for the IRR root-find (~6% annual).
const irrGuess = 0.005

// Error indicates that the IRR root-find failed for a single loan. It is
// recorded on that loan's result; the rest of the portfolio still values.
type Error struct {
	Loan string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("valuation failed for loan %s: %v", e.Loan, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result holds the valuation outputs for one loan. Computed once after
// simulation; read-only thereafter.
type Result struct {
	LoanID        string
	Product       string
	EIR           float64
	CalculatedNPV float64
	EntityNPV     float64
	ProfitAndLoss float64
	Err           error
}

// Value runs the valuation pass over a finished book. EIR is the monthly
// rate zeroing each loan's cash-flow series (final sentinel column
// excluded); NPV discounts the cash flows from the window start onward, with
// a leading zero for the valuation date, at the loan's own EIR and at the
// supplied entity EIR. P&L sums the per-month profit-and-loss increments
// over the half-open window [start, end).
//
// Window months are derived per loan from its origination date. A window
// boundary outside the horizon is a caller-contract violation and aborts
// with a MonthOutOfRangeError. Per-loan root-find failures do not abort; the
// failure count is returned alongside the results.
func Value(logger *zap.Logger, book *simulation.Book, cfgLoans []config.Loan,
	periodStart, periodEnd time.Time) ([]Result, int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cashflow := book.Matrix(simulation.SeriesCashFlow)
	pl := book.Matrix(simulation.SeriesProfitAndLoss)
	horizon := book.Horizon()

	results := make([]Result, len(cfgLoans))
	failures := 0
	for i := range cfgLoans {
		loan := &cfgLoans[i]
		results[i] = Result{LoanID: loan.LoanID, Product: loan.Product}

		start := datetime.MonthsBetween(loan.OriginationTime, periodStart)
		end := datetime.MonthsBetween(loan.OriginationTime, periodEnd)
		if start < 0 || start >= horizon {
			return nil, failures, &simulation.MonthOutOfRangeError{
				Loan: loan.LoanID, Tag: "periodStart", Month: start, Horizon: horizon,
			}
		}
		if end < start || end > horizon {
			return nil, failures, &simulation.MonthOutOfRangeError{
				Loan: loan.LoanID, Tag: "periodEnd", Month: end, Horizon: horizon,
			}
		}

		row := cashflow.Row(i)
		eir, err := financial.InternalRateOfReturn(row[:horizon-1], irrGuess)
		if err != nil {
			verr := &Error{Loan: loan.LoanID, Err: err}
			results[i].Err = verr
			failures++
			logger.Warn("skipping loan valuation",
				zap.String("op", "valuation.Value"),
				zap.String("loan", loan.LoanID),
				zap.Error(verr),
			)
			continue
		}
		results[i].EIR = eir

		// Cash flows occurring from the window start, with a zero flow
		// prepended to represent the valuation date.
		series := make([]float64, 0, horizon-start+1)
		series = append(series, 0)
		series = append(series, row[start:]...)

		results[i].CalculatedNPV = -financial.NetPresentValue(eir, series)
		results[i].EntityNPV = -financial.NetPresentValue(loan.EntityEIR, series)
		results[i].ProfitAndLoss = windowProfitAndLoss(pl.Row(i), start, end)
	}

	if failures > 0 {
		logger.Warn("portfolio valuation completed with failures",
			zap.String("op", "valuation.Value"),
			zap.Int("failed", failures),
			zap.Int("loans", len(cfgLoans)),
		)
	}
	return results, failures, nil
}

// windowProfitAndLoss sums the month-on-month increments of the cumulative
// P&L series over [start, end).
func windowProfitAndLoss(plRow []float64, start, end int) float64 {
	total := 0.0
	for m := start; m < end; m++ {
		if m == 0 {
			total += plRow[0]
			continue
		}
		total += plRow[m] - plRow[m-1]
	}
	return total
}
