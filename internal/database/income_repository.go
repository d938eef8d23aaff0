package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/staffrevenue/revenue-manager/internal/models"
)

// IncomeRepository reads the per-date sums behind the income summary
type IncomeRepository struct {
	db DBTX
}

// NewIncomeRepository creates a new income repository
func NewIncomeRepository(db DBTX) *IncomeRepository {
	return &IncomeRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *IncomeRepository) WithTx(tx *sqlx.Tx) *IncomeRepository {
	return &IncomeRepository{db: tx}
}

// Dates returns the distinct dates in [start, end] that carry an entry, a working shift
// or an expense, ascending
func (r *IncomeRepository) Dates(ctx context.Context, start, end string) ([]string, error) {
	query := `
		SELECT date FROM (
			SELECT work_date AS date FROM entries
			WHERE work_date BETWEEN ? AND ?
			UNION
			SELECT work_date AS date FROM scheduled_shifts
			WHERE is_working = 1 AND work_date BETWEEN ? AND ?
			UNION
			SELECT expense_date AS date FROM daily_expenses
			WHERE expense_date BETWEEN ? AND ?
		)
		ORDER BY date ASC
	`

	dates := []string{}
	if err := r.db.SelectContext(ctx, &dates, query, start, end, start, end, start, end); err != nil {
		return nil, fmt.Errorf("failed to list income dates: %w", err)
	}
	return dates, nil
}

// GrossByDate sums entry amounts per work date
func (r *IncomeRepository) GrossByDate(ctx context.Context, start, end string) ([]models.DateAmount, error) {
	query := `
		SELECT work_date AS date, COALESCE(SUM(amount_cents), 0) AS cents
		FROM entries
		WHERE work_date BETWEEN ? AND ?
		GROUP BY work_date
	`
	return r.sumByDate(ctx, "gross", query, start, end)
}

// WagesByDate sums the wages of working shifts per work date
func (r *IncomeRepository) WagesByDate(ctx context.Context, start, end string) ([]models.DateAmount, error) {
	query := `
		SELECT work_date AS date, COALESCE(SUM(wage_cents), 0) AS cents
		FROM scheduled_shifts
		WHERE is_working = 1 AND work_date BETWEEN ? AND ?
		GROUP BY work_date
	`
	return r.sumByDate(ctx, "wages", query, start, end)
}

// ExpensesByDate sums expense amounts per expense date
func (r *IncomeRepository) ExpensesByDate(ctx context.Context, start, end string) ([]models.DateAmount, error) {
	query := `
		SELECT expense_date AS date, COALESCE(SUM(amount_cents), 0) AS cents
		FROM daily_expenses
		WHERE expense_date BETWEEN ? AND ?
		GROUP BY expense_date
	`
	return r.sumByDate(ctx, "expenses", query, start, end)
}

func (r *IncomeRepository) sumByDate(ctx context.Context, what, query, start, end string) ([]models.DateAmount, error) {
	rows := []models.DateAmount{}
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to sum %s by date: %w", what, err)
	}
	return rows, nil
}
