package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/staffrevenue/revenue-manager/internal/models"
)

// ScheduledShiftRepository handles the work schedule and the wages paid for it
type ScheduledShiftRepository struct {
	db DBTX
}

// NewScheduledShiftRepository creates a new scheduled shift repository
func NewScheduledShiftRepository(db DBTX) *ScheduledShiftRepository {
	return &ScheduledShiftRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *ScheduledShiftRepository) WithTx(tx *sqlx.Tx) *ScheduledShiftRepository {
	return &ScheduledShiftRepository{db: tx}
}

const shiftColumns = `
	ss.id, ss.staff_id, s.name AS staff_name, ss.work_date, ss.is_working,
	ss.wage_cents, ss.note, ss.created_at, ss.updated_at
`

// ListWorking returns the working shifts of a date
func (r *ScheduledShiftRepository) ListWorking(ctx context.Context, date string) ([]models.ScheduledShift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM scheduled_shifts ss
		JOIN staff s ON s.id = ss.staff_id
		WHERE ss.work_date = ? AND ss.is_working = 1
		ORDER BY s.name COLLATE NOCASE
	`

	shifts := []models.ScheduledShift{}
	if err := r.db.SelectContext(ctx, &shifts, query, date); err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

// ListByDate returns every schedule row of a date, working or not
func (r *ScheduledShiftRepository) ListByDate(ctx context.Context, date string) ([]models.ScheduledShift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM scheduled_shifts ss
		JOIN staff s ON s.id = ss.staff_id
		WHERE ss.work_date = ?
		ORDER BY s.name COLLATE NOCASE
	`

	shifts := []models.ScheduledShift{}
	if err := r.db.SelectContext(ctx, &shifts, query, date); err != nil {
		return nil, fmt.Errorf("failed to list schedule: %w", err)
	}
	return shifts, nil
}

// Get returns the schedule row of a staff member on a date, or nil
func (r *ScheduledShiftRepository) Get(ctx context.Context, staffID int64, date string) (*models.ScheduledShift, error) {
	var shift models.ScheduledShift
	query := `
		SELECT ` + shiftColumns + `
		FROM scheduled_shifts ss
		JOIN staff s ON s.id = ss.staff_id
		WHERE ss.staff_id = ? AND ss.work_date = ?
	`

	err := r.db.GetContext(ctx, &shift, query, staffID, date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return &shift, nil
}

// Upsert writes the schedule row of a staff member on a date
func (r *ScheduledShiftRepository) Upsert(ctx context.Context, shift models.ScheduledShift) error {
	query := `
		INSERT INTO scheduled_shifts (staff_id, work_date, is_working, wage_cents, note)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(staff_id, work_date) DO UPDATE SET
			is_working = excluded.is_working,
			wage_cents = excluded.wage_cents,
			note = excluded.note,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query,
		shift.StaffID,
		shift.WorkDate,
		shift.IsWorking,
		shift.WageCents,
		shift.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert shift: %w", err)
	}
	return nil
}

// Delete removes the schedule row of a staff member on a date
func (r *ScheduledShiftRepository) Delete(ctx context.Context, staffID int64, date string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM scheduled_shifts WHERE staff_id = ? AND work_date = ?`, staffID, date)
	if err != nil {
		return false, fmt.Errorf("failed to delete shift: %w", err)
	}
	return affected(result)
}
