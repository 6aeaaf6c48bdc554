package sheets

import (
	"testing"
	"time"
)

func TestMonthTab(t *testing.T) {
	cases := map[time.Month]string{
		time.January:  "January",
		time.June:     "June",
		time.December: "December",
	}
	for month, want := range cases {
		now := time.Date(2026, month, 10, 0, 0, 0, 0, time.UTC)
		if got := monthTab(now); got != want {
			t.Fatalf("monthTab(%v) = %q, want %q", month, got, want)
		}
	}
}

func TestScanRange(t *testing.T) {
	now := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	if got := scanRange(now, expenseFirstCol); got != "March!B4:B1000" {
		t.Fatalf("expense scan range = %q", got)
	}
	if got := scanRange(now, incomeFirstCol); got != "March!I4:I1000" {
		t.Fatalf("income scan range = %q", got)
	}
}

func TestRowRange(t *testing.T) {
	now := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	if got := rowRange(now, expenseFirstCol, expenseLastCol, 4); got != "September!B4:G4" {
		t.Fatalf("expense row range = %q", got)
	}
	if got := rowRange(now, incomeFirstCol, incomeLastCol, 17); got != "September!I17:K17" {
		t.Fatalf("income row range = %q", got)
	}
}
