package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/staffrevenue/revenue-manager/internal/models"
)

// EntryRepository handles revenue entries and the reports read from them
type EntryRepository struct {
	db DBTX
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db DBTX) *EntryRepository {
	return &EntryRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *EntryRepository) WithTx(tx *sqlx.Tx) *EntryRepository {
	return &EntryRepository{db: tx}
}

const entryColumns = `
	e.id, e.staff_id, s.name AS staff_name, e.amount_cents, e.note, e.work_date,
	e.order_number, e.payment_method, e.created_at
`

// List returns entries of a date range, newest work date first
func (r *EntryRepository) List(ctx context.Context, start, end string) ([]models.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries e
		JOIN staff s ON s.id = e.staff_id
		WHERE e.work_date BETWEEN ? AND ?
		ORDER BY e.work_date DESC, s.name COLLATE NOCASE, e.id
	`

	entries := []models.Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// GetByID returns an entry, or nil when it does not exist
func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*models.Entry, error) {
	var entry models.Entry
	query := `
		SELECT ` + entryColumns + `
		FROM entries e
		JOIN staff s ON s.id = e.staff_id
		WHERE e.id = ?
	`

	err := r.db.GetContext(ctx, &entry, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return &entry, nil
}

// Insert stores a new entry
func (r *EntryRepository) Insert(ctx context.Context, input models.CreateEntryInput) (int64, error) {
	query := `
		INSERT INTO entries (staff_id, amount_cents, note, work_date, order_number, payment_method)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		input.StaffID,
		input.AmountCents,
		input.Note,
		input.WorkDate,
		input.OrderNumber,
		input.PaymentMethod,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read entry id: %w", err)
	}
	return id, nil
}

// Update rewrites amount, note and payment method. Returns false when no row matched.
func (r *EntryRepository) Update(ctx context.Context, id int64, input models.UpdateEntryInput) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE entries SET amount_cents = ?, note = ?, payment_method = ? WHERE id = ?`,
		input.AmountCents, input.Note, input.PaymentMethod, id)
	if err != nil {
		return false, fmt.Errorf("failed to update entry: %w", err)
	}
	return affected(result)
}

// Delete removes an entry. Returns false when no row matched.
func (r *EntryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete entry: %w", err)
	}
	return affected(result)
}

// ListTransactions returns entries matching filter, most recently recorded first
func (r *EntryRepository) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries e
		JOIN staff s ON s.id = e.staff_id
		WHERE 1=1
	`
	var args []interface{}

	if filter.StartDate != "" {
		query += ` AND e.work_date >= ?`
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += ` AND e.work_date <= ?`
		args = append(args, filter.EndDate)
	}
	if filter.StaffID > 0 {
		query += ` AND e.staff_id = ?`
		args = append(args, filter.StaffID)
	}
	if filter.PaymentMethod != "" {
		query += ` AND e.payment_method = ?`
		args = append(args, filter.PaymentMethod)
	}

	query += ` ORDER BY e.created_at DESC, e.id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	entries := []models.Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return entries, nil
}

// SummarizeByPaymentMethod aggregates entries of a date range per payment method
func (r *EntryRepository) SummarizeByPaymentMethod(ctx context.Context, start, end string) ([]models.PaymentMethodSummary, error) {
	query := `
		SELECT payment_method,
		       COUNT(*) AS count,
		       COALESCE(SUM(amount_cents), 0) AS total_cents,
		       COALESCE(AVG(amount_cents), 0) AS avg_cents
		FROM entries
		WHERE work_date BETWEEN ? AND ?
		GROUP BY payment_method
		ORDER BY payment_method
	`

	summary := []models.PaymentMethodSummary{}
	if err := r.db.SelectContext(ctx, &summary, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	return summary, nil
}

// periodLabels maps a statistics period to the SQLite expression labelling it.
// Week numbers are SQLite %W (Monday-first) plus one, zero padded.
var periodLabels = map[string]string{
	models.PeriodDaily:   `work_date`,
	models.PeriodWeekly:  `strftime('%Y', work_date) || '-W' || printf('%02d', CAST(strftime('%W', work_date) AS INTEGER) + 1)`,
	models.PeriodMonthly: `strftime('%Y-%m', work_date)`,
}

// SumByPeriod totals entry amounts per day, week or month, latest period first
func (r *EntryRepository) SumByPeriod(ctx context.Context, period, start, end string) ([]models.PeriodTotal, error) {
	label, ok := periodLabels[period]
	if !ok {
		return nil, fmt.Errorf("unknown statistics period %q", period)
	}

	query := `
		SELECT ` + label + ` AS period, COALESCE(SUM(amount_cents), 0) AS total_cents
		FROM entries
		WHERE work_date BETWEEN ? AND ?
		GROUP BY period
		ORDER BY period DESC
	`

	totals := []models.PeriodTotal{}
	if err := r.db.SelectContext(ctx, &totals, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to sum entries by period: %w", err)
	}
	return totals, nil
}
