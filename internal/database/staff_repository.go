package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/staffrevenue/revenue-manager/internal/models"
)

// StaffRepository handles staff database operations
type StaffRepository struct {
	db DBTX
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db DBTX) *StaffRepository {
	return &StaffRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *StaffRepository) WithTx(tx *sqlx.Tx) *StaffRepository {
	return &StaffRepository{db: tx}
}

// List returns staff ordered by name
func (r *StaffRepository) List(ctx context.Context, includeInactive bool) ([]models.Staff, error) {
	query := `SELECT id, name, active, created_at FROM staff`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name COLLATE NOCASE`

	staff := []models.Staff{}
	if err := r.db.SelectContext(ctx, &staff, query); err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

// GetByID returns a staff member, or nil when it does not exist
func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.GetContext(ctx, &staff, `SELECT id, name, active, created_at FROM staff WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

// Insert creates an active staff member
func (r *StaffRepository) Insert(ctx context.Context, name string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO staff (name, active) VALUES (?, 1)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert staff: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read staff id: %w", err)
	}
	return id, nil
}

// Rename changes the name of a staff member. Returns false when no row matched.
func (r *StaffRepository) Rename(ctx context.Context, id int64, name string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE staff SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return false, fmt.Errorf("failed to rename staff: %w", err)
	}
	return affected(result)
}

// CountReferences counts entries and scheduled shifts that point at a staff member
func (r *StaffRepository) CountReferences(ctx context.Context, id int64) (int64, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM entries WHERE staff_id = ?) +
			(SELECT COUNT(*) FROM scheduled_shifts WHERE staff_id = ?)
	`

	var count int64
	if err := r.db.GetContext(ctx, &count, query, id, id); err != nil {
		return 0, fmt.Errorf("failed to count staff references: %w", err)
	}
	return count, nil
}

// Deactivate hides a staff member while keeping its history
func (r *StaffRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE staff SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate staff: %w", err)
	}
	return affected(result)
}

// Delete removes a staff member and its rate
func (r *StaffRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM staff_rates WHERE staff_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete staff rate: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete staff: %w", err)
	}
	return affected(result)
}

func affected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows > 0, nil
}
