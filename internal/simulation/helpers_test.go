package simulation

import (
	"testing"

	"github.com/iwvelando/cashflow-eir/internal/config"
	"github.com/iwvelando/cashflow-eir/internal/curves"
	"github.com/iwvelando/cashflow-eir/pkg/loans"
	"go.uber.org/zap"
)

// testLoan builds a parsed loan with sensible defaults for engine tests.
func testLoan(t *testing.T, mutate func(*config.Loan)) config.Loan {
	t.Helper()
	loan := config.Loan{
		LoanID:          "loan-1",
		Product:         "Tracker",
		OriginationDate: "2019-01",
		ReversionDate:   "2024-01",
		RateTerm:        5,
		LoanAmount:      100000,
		InitialRate:     0.03,
		ReversionRate:   0.05,
		Term:            360,
	}
	if mutate != nil {
		mutate(&loan)
	}
	if err := loan.ParseDates(); err != nil {
		t.Fatalf("failed to parse loan dates: %v", err)
	}
	return loan
}

// flatCurve returns a table mapping the product to a constant coefficient.
func flatCurve(t *testing.T, name, product string, value float64, horizon int) *curves.Table {
	t.Helper()
	values := make([]float64, horizon)
	for i := range values {
		values[i] = value
	}
	return curveTable(t, name, product, values)
}

func curveTable(t *testing.T, name, product string, values []float64) *curves.Table {
	t.Helper()
	table, err := curves.NewTable(name, []curves.Row{{Product: product, Values: values}}, len(values))
	if err != nil {
		t.Fatalf("failed to build %s table: %v", name, err)
	}
	return table
}

// buildBook derives schedule parameters and initializes a book for the loans.
func buildBook(t *testing.T, cfgLoans []config.Loan, cpr, erc *curves.Table) *Book {
	t.Helper()
	terms := make([]loans.Terms, len(cfgLoans))
	for i := range cfgLoans {
		terms[i] = cfgLoans[i].Terms()
	}
	params, _ := loans.DeriveAll(zap.NewNop(), terms)
	book, err := NewBook(zap.NewNop(), cfgLoans, params, cpr, erc)
	if err != nil {
		t.Fatalf("failed to build book: %v", err)
	}
	return book
}
