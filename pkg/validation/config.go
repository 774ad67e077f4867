// Package validation provides pre-run configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/cashflow-eir/internal/config"
	"github.com/iwvelando/cashflow-eir/internal/curves"
	"github.com/iwvelando/cashflow-eir/pkg/constants"
	"github.com/iwvelando/cashflow-eir/pkg/datetime"
)

// ValidateConfiguration checks the portfolio before any simulation matrix is
// populated. Structural problems (no loans, malformed terms, unordered
// reporting window, a product missing from a curve table) are fatal; the
// returned warnings are advisory only.
func ValidateConfiguration(conf *config.Configuration, cpr, erc *curves.Table) ([]string, error) {
	var warnings []string

	if len(conf.Loans) == 0 {
		return warnings, fmt.Errorf("configuration contains no loans")
	}

	endBeforeStart, err := datetime.DateBeforeDate(conf.Reporting.PeriodEnd, conf.Reporting.PeriodStart)
	if err != nil {
		return warnings, fmt.Errorf("reporting window: %w", err)
	}
	if endBeforeStart {
		return warnings, fmt.Errorf("reporting window is not ordered (%s > %s)",
			conf.Reporting.PeriodStart, conf.Reporting.PeriodEnd)
	}

	horizon := erc.Horizon()
	for i := range conf.Loans {
		loan := &conf.Loans[i]
		if loan.LoanID == "" {
			return warnings, fmt.Errorf("loan at index %d has no loanId", i)
		}
		if loan.Term <= 0 {
			return warnings, fmt.Errorf("loan %s has non-positive term %d", loan.LoanID, loan.Term)
		}
		if loan.RateTerm < 0 {
			return warnings, fmt.Errorf("loan %s has negative rateTerm %d", loan.LoanID, loan.RateTerm)
		}
		if loan.LoanAmount < 0 {
			return warnings, fmt.Errorf("loan %s has negative loanAmount %.2f", loan.LoanID, loan.LoanAmount)
		}
		if loan.InterestOnlyAmount > loan.LoanAmount {
			return warnings, fmt.Errorf("loan %s interestOnlyAmount %.2f exceeds loanAmount %.2f",
				loan.LoanID, loan.InterestOnlyAmount, loan.LoanAmount)
		}

		// Adjustment keys must carry the tag token; a malformed key would
		// otherwise only surface once matrices are being built.
		for tag := range loan.Adjustments {
			if !datetime.IsAdjustmentTag(tag) {
				return warnings, fmt.Errorf("loan %s adjustment key %q lacks the %q token",
					loan.LoanID, tag, constants.AdjustmentToken)
			}
		}

		// Curve coverage must hold for every loan before matrices are built.
		if _, err := cpr.ResolveForLoan(loan.LoanID, loan.Product); err != nil {
			return warnings, err
		}
		if _, err := erc.ResolveForLoan(loan.LoanID, loan.Product); err != nil {
			return warnings, err
		}

		if reversion := datetime.MonthsBetween(loan.OriginationTime, loan.ReversionTime); reversion >= horizon {
			horizonEnd, err := datetime.OffsetDate(loan.OriginationDate, datetime.DateTimeLayout, horizon)
			if err != nil {
				return warnings, err
			}
			warnings = append(warnings, fmt.Sprintf(
				"Loan '%s' reverts at month %d, at or beyond the %d-month horizon ending %s - initial rate applies throughout",
				loan.LoanID, reversion, horizon, horizonEnd))
		}
	}

	return warnings, nil
}
