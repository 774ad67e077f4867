package simulation

import (
	"fmt"

	"github.com/iwvelando/cashflow-eir/internal/config"
	"github.com/iwvelando/cashflow-eir/internal/curves"
	"github.com/iwvelando/cashflow-eir/pkg/datetime"
	"github.com/iwvelando/cashflow-eir/pkg/loans"
	"go.uber.org/zap"
)

// MonthOutOfRangeError indicates a month offset that falls outside the
// simulation horizon.
type MonthOutOfRangeError struct {
	Loan    string
	Tag     string
	Month   int
	Horizon int
}

func (e *MonthOutOfRangeError) Error() string {
	return fmt.Sprintf("loan %s: %s resolves to month %d, outside [0, %d)",
		e.Loan, e.Tag, e.Month, e.Horizon)
}

// Book holds every simulation matrix for a loan portfolio plus the immutable
// per-loan inputs resolved at initialization: curve rows, reversion months,
// schedule parameters, and month-0 seeds. All matrices share shape
// loans x horizon.
type Book struct {
	loanCount int
	horizon   int

	matrices [seriesCount]*Matrix

	ids      []string
	products []string

	reversion []int
	cpr       [][]float64
	erc       [][]float64
	params    []loans.ScheduleParams

	// Month-0 initial conditions; nonzero only in that single month.
	loanAmount   []float64
	upfrontCosts []float64
	upfrontFees  []float64
}

// NewBook resolves every loan against the curve tables, builds the rate and
// adjustment matrices, and seeds month-0 initial conditions. The horizon is
// taken from the ERC table. Curve resolution and adjustment placement run
// before the simulation loop; any failure here aborts before a single
// computed month is populated.
func NewBook(logger *zap.Logger, cfgLoans []config.Loan, params []loans.ScheduleParams,
	cpr, erc *curves.Table) (*Book, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfgLoans) != len(params) {
		return nil, fmt.Errorf("have %d loans but %d schedule parameter sets", len(cfgLoans), len(params))
	}

	horizon := erc.Horizon()
	b := &Book{
		loanCount:    len(cfgLoans),
		horizon:      horizon,
		ids:          make([]string, len(cfgLoans)),
		products:     make([]string, len(cfgLoans)),
		reversion:    make([]int, len(cfgLoans)),
		cpr:          make([][]float64, len(cfgLoans)),
		erc:          make([][]float64, len(cfgLoans)),
		params:       params,
		loanAmount:   make([]float64, len(cfgLoans)),
		upfrontCosts: make([]float64, len(cfgLoans)),
		upfrontFees:  make([]float64, len(cfgLoans)),
	}
	for s := range b.matrices {
		b.matrices[s] = NewMatrix(len(cfgLoans), horizon)
	}

	for i := range cfgLoans {
		loan := &cfgLoans[i]
		b.ids[i] = loan.LoanID
		b.products[i] = loan.Product

		ercRow, err := erc.ResolveForLoan(loan.LoanID, loan.Product)
		if err != nil {
			return nil, err
		}
		cprRow, err := cpr.ResolveForLoan(loan.LoanID, loan.Product)
		if err != nil {
			return nil, err
		}
		b.erc[i] = ercRow
		b.cpr[i] = cprRow

		// A reversion at or before origination means the loan has already
		// reverted; the reversion rate applies from month 0.
		reversion := datetime.MonthsBetween(loan.OriginationTime, loan.ReversionTime)
		if reversion < 0 {
			reversion = 0
		}
		b.reversion[i] = reversion

		rate := b.matrices[SeriesRate]
		for m := 0; m < horizon; m++ {
			if m < reversion {
				rate.Set(i, m, loan.InitialRate)
			} else {
				rate.Set(i, m, loan.ReversionRate)
			}
		}

		if err := b.placeAdjustments(logger, i, loan); err != nil {
			return nil, err
		}

		b.matrices[SeriesStatementAmount].Set(i, 0, loan.LoanAmount)
		b.loanAmount[i] = loan.LoanAmount
		b.upfrontCosts[i] = loan.UpfrontCosts
		b.upfrontFees[i] = loan.UpfrontFees
	}

	logger.Debug("portfolio book initialized",
		zap.String("op", "simulation.NewBook"),
		zap.Int("loans", b.loanCount),
		zap.Int("horizonMonths", b.horizon),
	)
	return b, nil
}

// placeAdjustments parses each calendar-tagged adjustment into its month
// offset relative to the loan's origination and stores the amount.
func (b *Book) placeAdjustments(logger *zap.Logger, i int, loan *config.Loan) error {
	adjustments := b.matrices[SeriesAdjustments]
	for tag, amount := range loan.Adjustments {
		when, err := datetime.ParseAdjustmentTag(tag)
		if err != nil {
			return fmt.Errorf("loan %s: %w", loan.LoanID, err)
		}
		month := datetime.MonthsBetween(loan.OriginationTime, when)
		if month < 0 || month >= b.horizon {
			return &MonthOutOfRangeError{
				Loan:    loan.LoanID,
				Tag:     tag,
				Month:   month,
				Horizon: b.horizon,
			}
		}
		// Distinct tags can encode the same month; amounts accumulate.
		adjustments.Add(i, month, amount)
		logger.Debug("adjustment placed",
			zap.String("op", "simulation.NewBook"),
			zap.String("loan", loan.LoanID),
			zap.String("tag", tag),
			zap.Int("month", month),
			zap.Float64("amount", amount),
		)
	}
	return nil
}

// Matrix returns the matrix tracking the given series.
func (b *Book) Matrix(s Series) *Matrix {
	return b.matrices[s]
}

// LoanCount returns the number of loans in the book.
func (b *Book) LoanCount() int { return b.loanCount }

// Horizon returns the number of simulated months.
func (b *Book) Horizon() int { return b.horizon }

// LoanID returns the identifier of the loan at the given row.
func (b *Book) LoanID(i int) string { return b.ids[i] }

// Product returns the product tag of the loan at the given row.
func (b *Book) Product(i int) string { return b.products[i] }

// ReversionMonth returns the month at which the loan's rate reverts; it may
// be at or beyond the horizon.
func (b *Book) ReversionMonth(i int) int { return b.reversion[i] }
