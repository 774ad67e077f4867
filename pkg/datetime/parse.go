// Package datetime provides date and month-arithmetic utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/cashflow-eir/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseMonth parses a month string in the standard config layout.
func ParseMonth(date string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse month %s: %w", date, err)
	}
	return t, nil
}

// MonthsBetween returns the whole-month difference between two dates, later
// minus earlier; the result is negative when to precedes from. Day-of-month is
// ignored.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*constants.MonthsPerYear + int(to.Month()) - int(from.Month())
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// ParseAdjustmentTag parses an adjustment tag of the form "adjust Jun-19"
// (token matched case-insensitively) into the calendar month it encodes.
func ParseAdjustmentTag(tag string) (time.Time, error) {
	lowered := strings.ToLower(strings.TrimSpace(tag))
	if !strings.Contains(lowered, constants.AdjustmentToken) {
		return time.Time{}, fmt.Errorf("tag %q does not contain %q token", tag, constants.AdjustmentToken)
	}
	remainder := strings.TrimSpace(strings.Replace(lowered, constants.AdjustmentToken, "", 1))
	// time.Parse on abbreviated month names is case-sensitive, so restore the
	// leading capital stripped by the normalization above.
	if len(remainder) > 0 {
		remainder = strings.ToUpper(remainder[:1]) + remainder[1:]
	}
	t, err := time.Parse(constants.AdjustmentTagLayout, remainder)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse adjustment tag %q: %w", tag, err)
	}
	return t, nil
}

// IsAdjustmentTag reports whether a column tag names an adjustment amount.
func IsAdjustmentTag(tag string) bool {
	return strings.Contains(strings.ToLower(tag), constants.AdjustmentToken)
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate string, secondDate string) (bool, error) {
	firstDateT, err := time.Parse(DateTimeLayout, firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := time.Parse(DateTimeLayout, secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}
