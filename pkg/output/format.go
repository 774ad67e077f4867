// Package output provides utilities for formatting and exporting simulation
// matrices and valuation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iwvelando/cashflow-eir/internal/simulation"
	"github.com/iwvelando/cashflow-eir/internal/valuation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyValuation outputs a human-readable per-loan valuation table.
func PrettyValuation(w io.Writer, results []valuation.Result) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "Loan       | Product      | EIR      | NPV           | Entity NPV    | P&L\n")
	fmt.Fprintf(w, "____       | _______      | ___      | ___           | __________    | ___\n")
	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(w, "%-10s | %-12s | valuation failed: %v\n", result.LoanID, result.Product, result.Err)
			continue
		}
		_, _ = p.Fprintf(w, "%-10s | %-12s | %.5f%% | $%.2f | $%.2f | $%.2f\n",
			result.LoanID, result.Product,
			result.EIR*100, result.CalculatedNPV, result.EntityNPV, result.ProfitAndLoss)
	}
}

// CsvValuation outputs valuation results in comma-separated value format.
func CsvValuation(w io.Writer, results []valuation.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"loan_id", "product", "calculated_eir", "calculated_npv", "entity_npv", "calculated_profit_and_loss"}); err != nil {
		return err
	}
	for _, result := range results {
		if result.Err != nil {
			if err := cw.Write([]string{result.LoanID, result.Product, "", "", "", ""}); err != nil {
				return err
			}
			continue
		}
		record := []string{
			result.LoanID,
			result.Product,
			formatFloat(result.EIR),
			formatFloat(result.CalculatedNPV),
			formatFloat(result.EntityNPV),
			formatFloat(result.ProfitAndLoss),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvMatrix writes one series matrix in comma-separated value format, one
// labelled row per loan and one column per month.
func CsvMatrix(w io.Writer, book *simulation.Book, series simulation.Series) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, book.Horizon()+2)
	header = append(header, "loan_id", "product")
	for m := 0; m < book.Horizon(); m++ {
		header = append(header, strconv.Itoa(m))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	matrix := book.Matrix(series)
	for i := 0; i < book.LoanCount(); i++ {
		record := make([]string, 0, book.Horizon()+2)
		record = append(record, book.LoanID(i), book.Product(i))
		for _, value := range matrix.Row(i) {
			record = append(record, formatFloat(value))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportMatrices writes one CSV file per requested series into the given
// directory, creating it if needed. File names are the series display names
// with spaces replaced, prefixed by preappend.
func ExportMatrices(dir, preappend string, book *simulation.Book, series []simulation.Series) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	for _, s := range series {
		path := filepath.Join(dir, preappend+fileName(s))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := CsvMatrix(f, book, s); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func fileName(s simulation.Series) string {
	name := ""
	for _, r := range s.String() {
		if r == ' ' {
			name += "_"
		} else {
			name += string(r)
		}
	}
	return name + ".csv"
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
