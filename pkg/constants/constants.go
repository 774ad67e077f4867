// Package constants provides shared constants for the cashflow-eir application.
package constants

// DateTimeLayout is the month format expected in config files and is also the
// output date format.
const DateTimeLayout = "2006-01"

// AdjustmentTagLayout is the abbreviated month-year format embedded in
// adjustment tags, e.g. "adjust Jun-19".
const AdjustmentTagLayout = "Jan-06"

// AdjustmentToken is the case-insensitive token identifying adjustment tags.
const AdjustmentToken = "adjust"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Root-find parameters for the IRR solver.
const (
	// RateTolerance is the convergence tolerance for rate solving, chosen for
	// basis-point-level rate precision.
	RateTolerance = 1e-7

	// MaxSolverIterations bounds the Newton-Raphson iteration count before the
	// solver falls back to bisection.
	MaxSolverIterations = 50

	// MaxBisectionIterations bounds the bisection fallback.
	MaxBisectionIterations = 200

	// ResidualToleranceRatio scales the acceptable NPV residual at a solved
	// rate relative to the summed magnitude of the cash-flow series.
	ResidualToleranceRatio = 1e-4
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)
