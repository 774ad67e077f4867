// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"time"

	"github.com/iwvelando/cashflow-eir/internal/curves"
	"github.com/iwvelando/cashflow-eir/pkg/constants"
	"github.com/iwvelando/cashflow-eir/pkg/datetime"
	"github.com/iwvelando/cashflow-eir/pkg/loans"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for cashflow-eir.
type Configuration struct {
	Loans     []Loan
	CPR       []CurveRow
	ERC       []CurveRow
	Reporting ReportingConfig
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format    string   `yaml:"format,omitempty"`    // pretty, csv
	Directory string   `yaml:"directory,omitempty"` // target directory for csv exports
	Series    []string `yaml:"series,omitempty"`    // named series subset to export; empty = all
}

// Loan indicates one loanbook row and its contractual parameters. Rates are
// annual decimal fractions.
type Loan struct {
	LoanID             string
	Product            string
	OriginationDate    string
	ReversionDate      string
	RateTerm           int // years on the initial rate
	LoanAmount         float64
	InitialRate        float64
	ReversionRate      float64
	Term               int // months
	InterestOnlyAmount float64
	UpfrontFees        float64
	UpfrontCosts       float64
	EntityEIR          float64
	// Adjustments maps calendar-tagged columns, e.g. "adjust Jun-19", to
	// one-off balance adjustment amounts.
	Adjustments map[string]float64

	OriginationTime time.Time `mapstructure:"-" yaml:"-"`
	ReversionTime   time.Time `mapstructure:"-" yaml:"-"`
}

// CurveRow is one product's row in the CPR or ERC table, one coefficient per
// simulation month.
type CurveRow struct {
	Product string
	Values  []float64
}

// ReportingConfig holds the valuation reporting window.
type ReportingConfig struct {
	PeriodStart string
	PeriodEnd   string

	PeriodStartTime time.Time `mapstructure:"-" yaml:"-"`
	PeriodEndTime   time.Time `mapstructure:"-" yaml:"-"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ParseDates parses every date provided in the configuration into time.Time
// values stored back onto the loans and reporting window.
func (conf *Configuration) ParseDates() error {
	for i := range conf.Loans {
		if err := conf.Loans[i].ParseDates(); err != nil {
			return err
		}
	}

	start, err := datetime.ParseMonth(conf.Reporting.PeriodStart)
	if err != nil {
		return fmt.Errorf("reporting periodStart: %w", err)
	}
	end, err := datetime.ParseMonth(conf.Reporting.PeriodEnd)
	if err != nil {
		return fmt.Errorf("reporting periodEnd: %w", err)
	}
	conf.Reporting.PeriodStartTime = start
	conf.Reporting.PeriodEndTime = end
	return nil
}

// ParseDates parses the loan's origination and reversion dates.
func (loan *Loan) ParseDates() error {
	origination, err := datetime.ParseMonth(loan.OriginationDate)
	if err != nil {
		return fmt.Errorf("loan %s originationDate: %w", loan.LoanID, err)
	}
	reversion, err := datetime.ParseMonth(loan.ReversionDate)
	if err != nil {
		return fmt.Errorf("loan %s reversionDate: %w", loan.LoanID, err)
	}
	loan.OriginationTime = origination
	loan.ReversionTime = reversion
	return nil
}

// Terms converts the loan into the contractual terms consumed by the
// schedule-parameter derivation.
func (loan *Loan) Terms() loans.Terms {
	return loans.Terms{
		Name:               loan.LoanID,
		LoanAmount:         loan.LoanAmount,
		InterestOnlyAmount: loan.InterestOnlyAmount,
		InitialRate:        loan.InitialRate,
		ReversionRate:      loan.ReversionRate,
		TermMonths:         loan.Term,
		RateTermYears:      loan.RateTerm,
	}
}

// CurveRows converts configured rows into the curve package's row type.
func CurveRows(rows []CurveRow) []curves.Row {
	out := make([]curves.Row, len(rows))
	for i, row := range rows {
		out[i] = curves.Row{Product: row.Product, Values: row.Values}
	}
	return out
}
