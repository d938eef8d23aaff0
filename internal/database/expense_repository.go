package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/staffrevenue/revenue-manager/internal/models"
)

// latestExpensesLimit caps the unfiltered expense list
const latestExpensesLimit = 100

// ExpenseRepository handles daily expense rows
type ExpenseRepository struct {
	db DBTX
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db DBTX) *ExpenseRepository {
	return &ExpenseRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *ExpenseRepository) WithTx(tx *sqlx.Tx) *ExpenseRepository {
	return &ExpenseRepository{db: tx}
}

const expenseColumns = `
	id, expense_date, category, description, amount_cents, notes, created_at, updated_at
`

// List returns the expenses of one date, of a range, or the latest ones when no filter is set
func (r *ExpenseRepository) List(ctx context.Context, filter models.ExpenseFilter) ([]models.DailyExpense, error) {
	var (
		query string
		args  []interface{}
	)

	switch {
	case filter.Date != "":
		query = `SELECT ` + expenseColumns + ` FROM daily_expenses WHERE expense_date = ? ORDER BY created_at DESC, id DESC`
		args = append(args, filter.Date)
	case filter.StartDate != "" && filter.EndDate != "":
		query = `SELECT ` + expenseColumns + ` FROM daily_expenses WHERE expense_date BETWEEN ? AND ? ORDER BY expense_date DESC, created_at DESC, id DESC`
		args = append(args, filter.StartDate, filter.EndDate)
	default:
		query = `SELECT ` + expenseColumns + ` FROM daily_expenses ORDER BY expense_date DESC, created_at DESC, id DESC LIMIT ?`
		args = append(args, latestExpensesLimit)
	}

	expenses := []models.DailyExpense{}
	if err := r.db.SelectContext(ctx, &expenses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// GetByID returns an expense, or nil when it does not exist
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*models.DailyExpense, error) {
	var expense models.DailyExpense
	err := r.db.GetContext(ctx, &expense, `SELECT `+expenseColumns+` FROM daily_expenses WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &expense, nil
}

// Insert stores a new expense
func (r *ExpenseRepository) Insert(ctx context.Context, input models.ExpenseInput) (int64, error) {
	query := `
		INSERT INTO daily_expenses (expense_date, category, description, amount_cents, notes)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		input.ExpenseDate,
		input.Category,
		input.Description,
		input.AmountCents,
		input.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read expense id: %w", err)
	}
	return id, nil
}

// Update rewrites an expense. Returns false when no row matched.
func (r *ExpenseRepository) Update(ctx context.Context, id int64, input models.ExpenseInput) (bool, error) {
	query := `
		UPDATE daily_expenses
		SET expense_date = ?, category = ?, description = ?, amount_cents = ?, notes = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		input.ExpenseDate,
		input.Category,
		input.Description,
		input.AmountCents,
		input.Notes,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update expense: %w", err)
	}
	return affected(result)
}

// Delete removes an expense. Returns false when no row matched.
func (r *ExpenseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM daily_expenses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}
	return affected(result)
}

// Summary totals expenses of a range per date and category
func (r *ExpenseRepository) Summary(ctx context.Context, start, end string) ([]models.ExpenseSummaryRow, error) {
	query := `
		SELECT expense_date, category,
		       COALESCE(SUM(amount_cents), 0) AS total_cents,
		       COUNT(*) AS count
		FROM daily_expenses
		WHERE expense_date BETWEEN ? AND ?
		GROUP BY expense_date, category
		ORDER BY expense_date DESC, category
	`

	rows := []models.ExpenseSummaryRow{}
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	return rows, nil
}
