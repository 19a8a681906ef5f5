package compliance_test

import (
	"testing"
	"time"

	"github.com/warp/compliance-engine/compliance"
)

func TestParseDate_RoundTrip(t *testing.T) {
	d, err := compliance.ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-03-05" {
		t.Errorf("expected 2024-03-05, got %s", d.String())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := compliance.ParseDate("05/03/2024"); err == nil {
		t.Error("expected an error for a non-ISO date")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from compliance.Date
		to   compliance.Date
		want int
	}{
		{"same day", compliance.NewDate(2024, time.March, 1), compliance.NewDate(2024, time.March, 1), 0},
		{"adjacent", compliance.NewDate(2024, time.March, 1), compliance.NewDate(2024, time.March, 2), 1},
		{"across leap day", compliance.NewDate(2024, time.February, 28), compliance.NewDate(2024, time.March, 1), 2},
		{"across year end", compliance.NewDate(2023, time.December, 30), compliance.NewDate(2024, time.January, 2), 3},
		{"reversed is negative", compliance.NewDate(2024, time.March, 3), compliance.NewDate(2024, time.March, 1), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compliance.DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestAddDays_NormalizesAcrossMonths(t *testing.T) {
	d := compliance.NewDate(2024, time.January, 30).AddDays(3)
	if d.String() != "2024-02-02" {
		t.Errorf("expected 2024-02-02, got %s", d.String())
	}
}

func TestIsWeekend(t *testing.T) {
	saturday := compliance.NewDate(2024, time.June, 1)
	monday := compliance.NewDate(2024, time.June, 3)

	if !saturday.IsWeekend() {
		t.Error("2024-06-01 is a Saturday")
	}
	if monday.IsWeekend() {
		t.Error("2024-06-03 is a Monday")
	}
	if !monday.IsWorkday() {
		t.Error("Monday should be a workday")
	}
}

func TestLedgerEntryOverlaps(t *testing.T) {
	entry := compliance.LedgerEntry{
		StartDate: compliance.NewDate(2024, time.May, 10),
		EndDate:   compliance.NewDate(2024, time.May, 15),
	}

	tests := []struct {
		name string
		from compliance.Date
		to   compliance.Date
		want bool
	}{
		{"contained", compliance.NewDate(2024, time.May, 12), compliance.NewDate(2024, time.May, 13), true},
		{"touching start", compliance.NewDate(2024, time.May, 5), compliance.NewDate(2024, time.May, 10), true},
		{"touching end", compliance.NewDate(2024, time.May, 15), compliance.NewDate(2024, time.May, 20), true},
		{"before", compliance.NewDate(2024, time.May, 1), compliance.NewDate(2024, time.May, 9), false},
		{"after", compliance.NewDate(2024, time.May, 16), compliance.NewDate(2024, time.May, 20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entry.Overlaps(tt.from, tt.to); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
