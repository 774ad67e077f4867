// Package loans provides annuity math and the derivation of per-loan
// amortization schedule parameters.
package loans

import (
	"math"

	"github.com/iwvelando/cashflow-eir/pkg/constants"
	"go.uber.org/zap"
)

// Terms holds the contractual inputs needed to derive schedule parameters for
// a single loan. Rates are annual decimal fractions (0.03 = 3%).
type Terms struct {
	Name               string
	LoanAmount         float64
	InterestOnlyAmount float64
	InitialRate        float64
	ReversionRate      float64
	TermMonths         int
	RateTermYears      int
}

// ScheduleParams holds the constant monthly payment figures and balances
// derived from a loan's Terms. These are the inputs the simulation engine
// selects between each month.
type ScheduleParams struct {
	TotalRepayment          float64
	MonthlyRepay            float64
	MonthlyRepayIO          float64
	MonthlyRepayIOReversion float64
	ReversionBalance        float64
	MonthlyRepayReversion   float64
	Degenerate              bool
}

// AnnuityPayment calculates the fixed monthly payment for a loan using the
// standard amortization formula. annualRate is a decimal fraction.
func AnnuityPayment(principal, annualRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	periodicRate := annualRate / constants.MonthsPerYear
	power := math.Pow(1.00+periodicRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicRate / discountFactor
}

// InterestPayment calculates one month's interest accrual on a balance.
func InterestPayment(balance, annualRate float64) float64 {
	return balance * annualRate / constants.MonthsPerYear
}

// CumulativePrincipal returns the principal repaid through the first
// throughMonths payments of a fixed-payment amortizing loan.
func CumulativePrincipal(principal, annualRate float64, termMonths, throughMonths int) float64 {
	if termMonths <= 0 || throughMonths <= 0 {
		return 0
	}
	if throughMonths > termMonths {
		throughMonths = termMonths
	}
	payment := AnnuityPayment(principal, annualRate, termMonths)
	if annualRate == 0 {
		return payment * float64(throughMonths)
	}
	periodicRate := annualRate / constants.MonthsPerYear
	power := math.Pow(1.00+periodicRate, float64(throughMonths))
	balance := principal*power - payment*(power-1.00)/periodicRate
	return principal - balance
}

// Derive computes the schedule parameters for a single loan. When the
// repayment principal is zero the post-reversion annuity is undefined; the
// figure defaults to zero and the result is flagged as degenerate rather
// than failing the loan.
func Derive(logger *zap.Logger, terms Terms) ScheduleParams {
	if logger == nil {
		logger = zap.NewNop()
	}

	params := ScheduleParams{
		TotalRepayment: terms.LoanAmount - terms.InterestOnlyAmount,
	}
	params.MonthlyRepay = AnnuityPayment(params.TotalRepayment, terms.InitialRate, terms.TermMonths)
	params.MonthlyRepayIO = InterestPayment(terms.InterestOnlyAmount, terms.InitialRate)
	params.MonthlyRepayIOReversion = InterestPayment(terms.InterestOnlyAmount, terms.ReversionRate)

	rateTermMonths := terms.RateTermYears * constants.MonthsPerYear
	params.ReversionBalance = params.TotalRepayment -
		CumulativePrincipal(params.TotalRepayment, terms.InitialRate, terms.TermMonths, rateTermMonths)

	remainingTerm := terms.TermMonths - rateTermMonths
	if params.TotalRepayment == 0 || remainingTerm <= 0 {
		params.MonthlyRepayReversion = 0
		params.Degenerate = true
		logger.Debug("defaulting reversion payment to zero",
			zap.String("op", "loans.Derive"),
			zap.String("loan", terms.Name),
			zap.Float64("totalRepayment", params.TotalRepayment),
			zap.Int("remainingTerm", remainingTerm),
		)
	} else {
		params.MonthlyRepayReversion = AnnuityPayment(params.ReversionBalance, terms.ReversionRate, remainingTerm)
	}

	return params
}

// DeriveAll derives schedule parameters for every loan in order and counts
// the loans whose reversion payment could not be calculated.
func DeriveAll(logger *zap.Logger, terms []Terms) ([]ScheduleParams, int) {
	if logger == nil {
		logger = zap.NewNop()
	}

	params := make([]ScheduleParams, len(terms))
	degenerate := 0
	for i, t := range terms {
		params[i] = Derive(logger, t)
		if params[i].Degenerate {
			degenerate++
		}
	}
	if degenerate > 0 {
		logger.Warn("some loans have undefined reversion payments defaulted to zero",
			zap.String("op", "loans.DeriveAll"),
			zap.Int("count", degenerate),
		)
	}
	return params, degenerate
}
