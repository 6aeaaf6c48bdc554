// Package sheets implements the spreadsheet store gateway. Records land
// in a month-named tab: expense rows span columns B..G, income rows
// I..K, both starting at row 4. Category and wallet reference lists live
// on a fixed Categories tab.
package sheets

import (
	"context"
	"fmt"
	"time"

	"ledgerbot/internal/ledger"
)

// Gateway is the narrow store contract the conversation core depends
// on. Every method may fail with a transient I/O error; callers must
// treat such failures as retryable and keep their state.
type Gateway interface {
	Categories(ctx context.Context) ([]string, error)
	Wallets(ctx context.Context) ([]string, error)
	AppendExpense(ctx context.Context, rec ledger.Expense) error
	AppendIncome(ctx context.Context, rec ledger.Income) error
}

// Opener resolves a per-user spreadsheet into a Gateway and validates
// candidate spreadsheet links during setup.
type Opener interface {
	Open(spreadsheetID string) Gateway
	Validate(ctx context.Context, spreadsheetID string) error
}

var months = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

const (
	categoriesRange = "Categories!B4:B20"
	walletsRange    = "Categories!G4:G20"

	dataStartRow = 4

	expenseFirstCol = "B"
	expenseLastCol  = "G"
	incomeFirstCol  = "I"
	incomeLastCol   = "K"
)

// monthTab returns the tab name for the given moment's calendar month.
func monthTab(now time.Time) string {
	return months[now.Month()-1]
}

// scanRange addresses the first column of a record region, used to count
// occupied rows.
func scanRange(now time.Time, firstCol string) string {
	return fmt.Sprintf("%s!%s%d:%s1000", monthTab(now), firstCol, dataStartRow, firstCol)
}

// rowRange addresses one full record row in the region.
func rowRange(now time.Time, firstCol, lastCol string, row int) string {
	return fmt.Sprintf("%s!%s%d:%s%d", monthTab(now), firstCol, row, lastCol, row)
}
