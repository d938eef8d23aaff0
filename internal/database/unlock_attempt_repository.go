package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// UnlockAttemptRepository records failed password and PIN checks.
// Times are stored as unix milliseconds so window comparisons are numeric.
type UnlockAttemptRepository struct {
	db DBTX
}

// NewUnlockAttemptRepository creates a new unlock attempt repository
func NewUnlockAttemptRepository(db DBTX) *UnlockAttemptRepository {
	return &UnlockAttemptRepository{
		db: db,
	}
}

// CountSince returns the number of attempts by identifier for scope at or after
// since, and the time of the oldest of them (zero when there are none)
func (r *UnlockAttemptRepository) CountSince(ctx context.Context, identifier, scope string, since time.Time) (int, time.Time, error) {
	var row struct {
		Count  int           `db:"count"`
		Oldest sql.NullInt64 `db:"oldest"`
	}

	query := `
		SELECT COUNT(*) AS count, MIN(attempted_at) AS oldest
		FROM unlock_attempts
		WHERE identifier = ? AND scope = ? AND attempted_at >= ?
	`
	if err := r.db.GetContext(ctx, &row, query, identifier, scope, since.UnixMilli()); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to count unlock attempts: %w", err)
	}

	if !row.Oldest.Valid {
		return row.Count, time.Time{}, nil
	}
	return row.Count, time.UnixMilli(row.Oldest.Int64), nil
}

// WithTx returns a repository bound to tx
func (r *UnlockAttemptRepository) WithTx(tx DBTX) *UnlockAttemptRepository {
	return &UnlockAttemptRepository{db: tx}
}

// Insert records one attempt and returns its id
func (r *UnlockAttemptRepository) Insert(ctx context.Context, identifier, scope string, at time.Time) (int64, error) {
	query := `INSERT INTO unlock_attempts (identifier, scope, attempted_at) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, identifier, scope, at.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to record unlock attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get unlock attempt id: %w", err)
	}
	return id, nil
}

// DeleteByID removes a single attempt
func (r *UnlockAttemptRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM unlock_attempts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete unlock attempt: %w", err)
	}
	return nil
}

// DeleteFor forgets the attempts of identifier for scope
func (r *UnlockAttemptRepository) DeleteFor(ctx context.Context, identifier, scope string) error {
	query := `DELETE FROM unlock_attempts WHERE identifier = ? AND scope = ?`
	if _, err := r.db.ExecContext(ctx, query, identifier, scope); err != nil {
		return fmt.Errorf("failed to clear unlock attempts: %w", err)
	}
	return nil
}

// DeleteBefore removes attempts older than cutoff and returns how many were removed
func (r *UnlockAttemptRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM unlock_attempts WHERE attempted_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup unlock attempts: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}
