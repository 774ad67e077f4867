package datetime

import (
	"testing"
	"time"
)

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected int
	}{
		{
			name:     "Same month",
			from:     "2019-06",
			to:       "2019-06",
			expected: 0,
		},
		{
			name:     "Within a year",
			from:     "2019-01",
			to:       "2019-07",
			expected: 6,
		},
		{
			name:     "Across year boundary",
			from:     "2019-11",
			to:       "2020-02",
			expected: 3,
		},
		{
			name:     "Several years",
			from:     "2019-03",
			to:       "2024-03",
			expected: 60,
		},
		{
			name:     "Negative when to precedes from",
			from:     "2020-01",
			to:       "2019-10",
			expected: -3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := MustParseTime(DateTimeLayout, tt.from)
			to := MustParseTime(DateTimeLayout, tt.to)
			if result := MonthsBetween(from, to); result != tt.expected {
				t.Errorf("MonthsBetween(%s, %s) = %d, expected %d", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestParseAdjustmentTag(t *testing.T) {
	tests := []struct {
		name      string
		tag       string
		expected  time.Time
		expectErr bool
	}{
		{
			name:     "Standard tag",
			tag:      "adjust Jun-19",
			expected: MustParseTime(DateTimeLayout, "2019-06"),
		},
		{
			name:     "Lowercase token and month",
			tag:      "ADJUST dec-20",
			expected: MustParseTime(DateTimeLayout, "2020-12"),
		},
		{
			name:     "Surrounding whitespace",
			tag:      "  adjust Jan-21  ",
			expected: MustParseTime(DateTimeLayout, "2021-01"),
		},
		{
			name:      "Missing token",
			tag:       "Jun-19",
			expectErr: true,
		},
		{
			name:      "Malformed month",
			tag:       "adjust June 2019",
			expectErr: true,
		},
		{
			name:      "Empty remainder",
			tag:       "adjust",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseAdjustmentTag(tt.tag)
			if tt.expectErr {
				if err == nil {
					t.Errorf("ParseAdjustmentTag(%q) expected error, got %v", tt.tag, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAdjustmentTag(%q) unexpected error: %v", tt.tag, err)
			}
			if result.Year() != tt.expected.Year() || result.Month() != tt.expected.Month() {
				t.Errorf("ParseAdjustmentTag(%q) = %v, expected %v", tt.tag, result, tt.expected)
			}
		})
	}
}

func TestIsAdjustmentTag(t *testing.T) {
	if !IsAdjustmentTag("Adjust Jun-19") {
		t.Errorf("IsAdjustmentTag should match regardless of case")
	}
	if IsAdjustmentTag("entity_eir") {
		t.Errorf("IsAdjustmentTag should not match unrelated tags")
	}
}

func TestOffsetDate(t *testing.T) {
	result, err := OffsetDate("2019-11", DateTimeLayout, 3)
	if err != nil {
		t.Fatalf("OffsetDate unexpected error: %v", err)
	}
	if result != "2020-02" {
		t.Errorf("OffsetDate(2019-11, +3) = %s, expected 2020-02", result)
	}
}

func TestParseMonth(t *testing.T) {
	if _, err := ParseMonth("2019-06"); err != nil {
		t.Errorf("ParseMonth(2019-06) unexpected error: %v", err)
	}
	if _, err := ParseMonth("June 2019"); err == nil {
		t.Errorf("ParseMonth should reject non-layout input")
	}
}

func TestDateBeforeDate(t *testing.T) {
	before, err := DateBeforeDate("2019-06", "2019-07")
	if err != nil {
		t.Fatalf("DateBeforeDate unexpected error: %v", err)
	}
	if !before {
		t.Errorf("2019-06 should be before 2019-07")
	}
}
