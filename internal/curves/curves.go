// Package curves defines the product-keyed coefficient tables (CPR and ERC)
// and resolves each loan's product to its per-month coefficient row.
package curves

import (
	"fmt"
	"strings"
)

// Row is one product's coefficient row as loaded from configuration.
type Row struct {
	Product string
	Values  []float64
}

// NotFoundError indicates that a product referenced by the loan portfolio has
// no usable row in a curve table.
type NotFoundError struct {
	Table   string
	Product string
	Loan    string
}

func (e *NotFoundError) Error() string {
	if e.Loan != "" {
		return fmt.Sprintf("%s curve not found for product %q (loan %s)", e.Table, e.Product, e.Loan)
	}
	return fmt.Sprintf("%s curve not found for product %q", e.Table, e.Product)
}

// Normalize maps a product tag to its lookup key: whitespace-trimmed and
// lowercased.
func Normalize(product string) string {
	return strings.ToLower(strings.TrimSpace(product))
}

// Table is a build-once curve table with a normalized product index. Rows are
// trimmed to the table horizon at construction and never mutated afterwards.
type Table struct {
	name    string
	horizon int
	index   map[string]int
	rows    [][]float64
}

// NewTable builds a table from configured rows, trimming every row to the
// given horizon. Duplicate products with identical coefficients collapse to
// one row; duplicates with differing coefficients are rejected. A row shorter
// than the horizon is malformed input.
func NewTable(name string, rows []Row, horizon int) (*Table, error) {
	t := &Table{
		name:    name,
		horizon: horizon,
		index:   make(map[string]int, len(rows)),
	}
	for _, row := range rows {
		key := Normalize(row.Product)
		if key == "" {
			return nil, fmt.Errorf("%s table contains a row with an empty product", name)
		}
		if len(row.Values) < horizon {
			return nil, fmt.Errorf("%s row for product %q has %d months, need %d",
				name, row.Product, len(row.Values), horizon)
		}
		trimmed := row.Values[:horizon]
		if existing, ok := t.index[key]; ok {
			if !equalValues(t.rows[existing], trimmed) {
				return nil, fmt.Errorf("%s table has conflicting duplicate rows for product %q", name, row.Product)
			}
			continue
		}
		t.index[key] = len(t.rows)
		t.rows = append(t.rows, trimmed)
	}
	return t, nil
}

// Horizon returns the number of months each row covers.
func (t *Table) Horizon() int {
	return t.horizon
}

// Resolve returns the coefficient row for a product, matched
// case-insensitively and whitespace-trimmed. The returned slice is shared;
// callers must not mutate it.
func (t *Table) Resolve(product string) ([]float64, error) {
	row, ok := t.index[Normalize(product)]
	if !ok {
		return nil, &NotFoundError{Table: t.name, Product: product}
	}
	return t.rows[row], nil
}

// ResolveForLoan is Resolve with the offending loan named in the failure, so
// a portfolio abort identifies which loan could not be covered.
func (t *Table) ResolveForLoan(loan, product string) ([]float64, error) {
	values, err := t.Resolve(product)
	if err != nil {
		return nil, &NotFoundError{Table: t.name, Product: product, Loan: loan}
	}
	return values, nil
}

func equalValues(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
