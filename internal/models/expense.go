package models

import "time"

// Expense categories
const (
	ExpenseCategoryMaterials = "materials"
	ExpenseCategoryUtilities = "utilities"
	ExpenseCategoryRent      = "rent"
	ExpenseCategoryOther     = "other"
)

// IsValidExpenseCategory reports whether c is a known category
func IsValidExpenseCategory(c string) bool {
	switch c {
	case ExpenseCategoryMaterials, ExpenseCategoryUtilities, ExpenseCategoryRent, ExpenseCategoryOther:
		return true
	}
	return false
}

// DailyExpense is a discretionary expense booked against a date
type DailyExpense struct {
	ID          int64     `db:"id" json:"id"`
	ExpenseDate string    `db:"expense_date" json:"expense_date"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Notes       string    `db:"notes" json:"notes"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ExpenseInput holds the writable fields of an expense
type ExpenseInput struct {
	ExpenseDate string `json:"expense_date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	Notes       string `json:"notes"`
}

// ExpenseFilter selects expenses by a single date or a date range
type ExpenseFilter struct {
	Date      string
	StartDate string
	EndDate   string
}

// ExpenseSummaryRow totals expenses per date and category
type ExpenseSummaryRow struct {
	ExpenseDate string `db:"expense_date" json:"expense_date"`
	Category    string `db:"category" json:"category"`
	TotalCents  int64  `db:"total_cents" json:"total_cents"`
	Count       int64  `db:"count" json:"count"`
}
