package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// LedgerTables lists every table holding ledger data, children before parents.
// settings is deliberately absent: clearing data keeps the password, PIN and rent.
var LedgerTables = []string{
	"gift_card_transactions",
	"gift_cards",
	"entries",
	"scheduled_shifts",
	"staff_rates",
	"daily_expenses",
	"staff",
}

// ClearLedger deletes all ledger rows and resets their id sequences in one
// transaction. It returns the number of rows removed per table.
func ClearLedger(ctx context.Context, s *Store) (map[string]int64, error) {
	removed := make(map[string]int64, len(LedgerTables))

	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range LedgerTables {
			res, err := tx.ExecContext(ctx, "DELETE FROM "+table)
			if err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to count cleared rows of %s: %w", table, err)
			}
			removed[table] = n
		}

		query, args, err := sqlx.In(`DELETE FROM sqlite_sequence WHERE name IN (?)`, LedgerTables)
		if err != nil {
			return fmt.Errorf("failed to build sequence reset: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to reset id sequences: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// CountRows returns the row count of every ledger table
func CountRows(ctx context.Context, s *Store) (map[string]int64, error) {
	counts := make(map[string]int64, len(LedgerTables))
	for _, table := range LedgerTables {
		var n int64
		if err := s.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
