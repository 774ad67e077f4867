package simulation

import (
	"go.uber.org/zap"

	"github.com/iwvelando/cashflow-eir/pkg/constants"
	"github.com/iwvelando/cashflow-eir/pkg/mathutil"
)

// Sign convention: balances and interest accruals are positive, payments are
// stored as negative magnitudes (so the statement recurrence nets the balance
// down by addition), and cash flow is outflow-to-lender positive. P&L is the
// running negation of cash flow.

// Run advances the recurrence for every loan from month 1 through the end of
// the horizon. Month 0 holds the initial conditions seeded by NewBook. Months
// are strictly sequential; every loan and month is always computed, with
// payments clamping to zero once a balance is exhausted.
func (b *Book) Run(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for m := 1; m < b.horizon; m++ {
		for i := 0; i < b.loanCount; i++ {
			b.step(i, m)
		}
	}

	logger.Debug("simulation complete",
		zap.String("op", "simulation.Run"),
		zap.Int("loans", b.loanCount),
		zap.Int("months", b.horizon-1),
	)
}

// step evaluates the month-m system of equations for one loan using month
// m-1 state. No cross-loan state is read or written.
func (b *Book) step(i, m int) {
	statement := b.matrices[SeriesStatementAmount]
	interest := b.matrices[SeriesStatementInterest]
	scheduled := b.matrices[SeriesScheduledPayment]
	early := b.matrices[SeriesEarlyRepayment]
	amortisation := b.matrices[SeriesCumulativeAmortisation]
	prepayment := b.matrices[SeriesCumulativePrepayment]
	charge := b.matrices[SeriesEarlyRepaymentCharge]
	cashflow := b.matrices[SeriesCashFlow]
	pl := b.matrices[SeriesProfitAndLoss]

	prevStatement := statement.At(i, m-1)

	// Monthly accrual at 1/12 of the annualized rate on the prior closing
	// balance.
	accrued := b.matrices[SeriesRate].At(i, m) * prevStatement / constants.MonthsPerYear

	spmt := b.scheduledPayment(i, m, prevStatement, accrued)

	// Principal plus interest amortized through the end of the prior month.
	cam := amortisation.At(i, m-1) + interest.At(i, m-1) + scheduled.At(i, m-1)

	cpy := b.cumulativePrepayment(i, m, cam, prepayment.At(i, m-1))

	epmt := earlyRepayment(prevStatement, accrued, spmt, prepayment.At(i, m-1), cpy)

	erc := b.erc[i][m] * epmt

	// Prior month's disbursement, costs, fees, and payments plus this month's
	// charge and adjustment. The month-0 terms contribute only at m=1.
	cf := scheduled.At(i, m-1) + early.At(i, m-1) + erc + b.matrices[SeriesAdjustments].At(i, m)
	if m == 1 {
		cf += b.loanAmount[i] + b.upfrontCosts[i] + b.upfrontFees[i]
	}

	scheduled.Set(i, m, spmt)
	interest.Set(i, m, accrued)
	amortisation.Set(i, m, cam)
	prepayment.Set(i, m, cpy)
	early.Set(i, m, epmt)
	charge.Set(i, m, erc)
	cashflow.Set(i, m, cf)
	pl.Set(i, m, pl.At(i, m-1)-cf)
	statement.Set(i, m, prevStatement+accrued+spmt+epmt)
}

// scheduledPayment selects between the four precomputed payment figures
// based on the loan's position relative to its reversion month, then clamps
// so an exhausted balance yields zero rather than a negative statement.
func (b *Book) scheduledPayment(i, m int, prevStatement, accrued float64) float64 {
	params := b.params[i]

	var figure float64
	if m < b.reversion[i] {
		figure = params.MonthlyRepay + params.MonthlyRepayIO
	} else {
		figure = params.MonthlyRepayReversion + params.MonthlyRepayIOReversion
	}

	// Balance available once this month's interest has accrued.
	available := prevStatement + accrued
	if available <= 0 {
		return 0
	}
	return -mathutil.Max(mathutil.Min(figure, available), 0)
}

// cumulativePrepayment applies the CPR coefficient delta to the remaining
// (original principal minus amortized-to-date) balance and accumulates.
func (b *Book) cumulativePrepayment(i, m int, cam, prevCumulative float64) float64 {
	remaining := mathutil.Max(b.loanAmount[i]+cam, 0)
	delta := b.cpr[i][m] - b.cpr[i][m-1]
	return prevCumulative + remaining*delta
}

// earlyRepayment converts the jump in cumulative prepayment into this
// month's voluntary prepayment cash amount, capped at the balance remaining
// after the scheduled flows.
func earlyRepayment(prevStatement, accrued, scheduled, prevCumulative, cumulative float64) float64 {
	prepay := cumulative - prevCumulative
	if prepay <= 0 {
		return 0
	}
	remaining := prevStatement + accrued + scheduled
	if remaining <= 0 {
		return 0
	}
	return -mathutil.Min(prepay, remaining)
}
