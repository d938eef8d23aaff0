package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/staffrevenue/revenue-manager/internal/models"
)

// StaffRateRepository handles default daily wages
type StaffRateRepository struct {
	db DBTX
}

// NewStaffRateRepository creates a new staff rate repository
func NewStaffRateRepository(db DBTX) *StaffRateRepository {
	return &StaffRateRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *StaffRateRepository) WithTx(tx *sqlx.Tx) *StaffRateRepository {
	return &StaffRateRepository{db: tx}
}

// ListActive returns the rate of every active staff member, 0 when none was set.
// updated_at is read as a plain column so the driver keeps its DATETIME type.
func (r *StaffRateRepository) ListActive(ctx context.Context) ([]models.StaffRate, error) {
	query := `
		SELECT s.id AS staff_id, s.name AS staff_name,
		       COALESCE(r.default_daily_wage_cents, 0) AS default_daily_wage_cents,
		       r.updated_at AS updated_at
		FROM staff s
		LEFT JOIN staff_rates r ON r.staff_id = s.id
		WHERE s.active = 1
		ORDER BY s.name COLLATE NOCASE
	`

	rates := []models.StaffRate{}
	if err := r.db.SelectContext(ctx, &rates, query); err != nil {
		return nil, fmt.Errorf("failed to list staff rates: %w", err)
	}
	return rates, nil
}

// GetDefaultWage returns the default daily wage of a staff member, 0 when none was set
func (r *StaffRateRepository) GetDefaultWage(ctx context.Context, staffID int64) (int64, error) {
	var cents int64
	err := r.db.GetContext(ctx, &cents,
		`SELECT default_daily_wage_cents FROM staff_rates WHERE staff_id = ?`, staffID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get staff rate: %w", err)
	}
	return cents, nil
}

// Upsert sets the default daily wage of a staff member
func (r *StaffRateRepository) Upsert(ctx context.Context, staffID, wageCents int64) error {
	query := `
		INSERT INTO staff_rates (staff_id, default_daily_wage_cents, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(staff_id) DO UPDATE SET
			default_daily_wage_cents = excluded.default_daily_wage_cents,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, staffID, wageCents); err != nil {
		return fmt.Errorf("failed to upsert staff rate: %w", err)
	}
	return nil
}

// InsertDefault creates a zero rate unless one already exists
func (r *StaffRateRepository) InsertDefault(ctx context.Context, staffID int64) error {
	query := `INSERT OR IGNORE INTO staff_rates (staff_id, default_daily_wage_cents) VALUES (?, 0)`
	if _, err := r.db.ExecContext(ctx, query, staffID); err != nil {
		return fmt.Errorf("failed to insert default staff rate: %w", err)
	}
	return nil
}
