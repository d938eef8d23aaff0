package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/staffrevenue/revenue-manager/internal/models"
)

// GiftCardRepository handles gift card and gift card transaction rows
type GiftCardRepository struct {
	db DBTX
}

// NewGiftCardRepository creates a new gift card repository
func NewGiftCardRepository(db DBTX) *GiftCardRepository {
	return &GiftCardRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *GiftCardRepository) WithTx(tx *sqlx.Tx) *GiftCardRepository {
	return &GiftCardRepository{db: tx}
}

const giftCardColumns = `
	gc.id, gc.card_number, gc.customer_name, gc.customer_phone, gc.customer_email,
	gc.initial_amount_cents, gc.remaining_amount_cents, gc.status,
	gc.created_at, gc.updated_at, gc.expires_at, gc.notes,
	(SELECT COUNT(*) FROM gift_card_transactions gct WHERE gct.gift_card_id = gc.id) AS transaction_count
`

// EscapeLike escapes LIKE wildcards so user input matches literally (ESCAPE '\')
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Insert stores a new active gift card whose remaining balance equals its initial amount
func (r *GiftCardRepository) Insert(ctx context.Context, card *models.GiftCard) (int64, error) {
	query := `
		INSERT INTO gift_cards (
			card_number, customer_name, customer_phone, customer_email,
			initial_amount_cents, remaining_amount_cents, status, expires_at, notes
		) VALUES (?, ?, ?, ?, ?, ?, 'active', ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		card.CardNumber,
		card.CustomerName,
		card.CustomerPhone,
		card.CustomerEmail,
		card.InitialAmountCents,
		card.InitialAmountCents,
		card.ExpiresAt,
		card.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert gift card: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read gift card id: %w", err)
	}
	return id, nil
}

// InsertTransaction appends an audit row to a gift card
func (r *GiftCardRepository) InsertTransaction(ctx context.Context, txn *models.GiftCardTransaction) (int64, error) {
	query := `
		INSERT INTO gift_card_transactions (
			gift_card_id, transaction_type, amount_cents, entry_id, staff_id, notes
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		txn.GiftCardID,
		txn.TransactionType,
		txn.AmountCents,
		txn.EntryID,
		txn.StaffID,
		txn.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert gift card transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read gift card transaction id: %w", err)
	}
	return id, nil
}

// GetByID returns a gift card, or nil when it does not exist
func (r *GiftCardRepository) GetByID(ctx context.Context, id int64) (*models.GiftCard, error) {
	var card models.GiftCard

	query := `SELECT ` + giftCardColumns + ` FROM gift_cards gc WHERE gc.id = ?`

	err := r.db.GetContext(ctx, &card, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gift card: %w", err)
	}
	return &card, nil
}

// GetActiveByID returns a gift card only when its status is active
func (r *GiftCardRepository) GetActiveByID(ctx context.Context, id int64) (*models.GiftCard, error) {
	var card models.GiftCard

	query := `SELECT ` + giftCardColumns + ` FROM gift_cards gc WHERE gc.id = ? AND gc.status = 'active'`

	err := r.db.GetContext(ctx, &card, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active gift card: %w", err)
	}
	return &card, nil
}

// List returns gift cards newest first, optionally narrowed by status and a search term
func (r *GiftCardRepository) List(ctx context.Context, filter models.GiftCardFilter) ([]models.GiftCard, error) {
	query := `SELECT ` + giftCardColumns + ` FROM gift_cards gc WHERE 1=1`
	var args []interface{}

	if filter.Status != "" {
		query += ` AND gc.status = ?`
		args = append(args, filter.Status)
	}

	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + EscapeLike(term) + "%"
		query += ` AND (gc.card_number LIKE ? ESCAPE '\' OR gc.customer_name LIKE ? ESCAPE '\' OR IFNULL(gc.customer_phone, '') LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern, pattern)
	}

	query += ` ORDER BY gc.created_at DESC, gc.id DESC`

	cards := []models.GiftCard{}
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list gift cards: %w", err)
	}
	return cards, nil
}

// SearchActive matches active cards by number, customer name or phone
func (r *GiftCardRepository) SearchActive(ctx context.Context, term string) ([]models.GiftCardMatch, error) {
	pattern := "%" + EscapeLike(term) + "%"

	query := `
		SELECT id, card_number, customer_name, customer_phone, remaining_amount_cents, status
		FROM gift_cards
		WHERE status = 'active'
		  AND (card_number LIKE ? ESCAPE '\' OR customer_name LIKE ? ESCAPE '\' OR IFNULL(customer_phone, '') LIKE ? ESCAPE '\')
		ORDER BY customer_name COLLATE NOCASE, id
	`

	matches := []models.GiftCardMatch{}
	if err := r.db.SelectContext(ctx, &matches, query, pattern, pattern, pattern); err != nil {
		return nil, fmt.Errorf("failed to search gift cards: %w", err)
	}
	return matches, nil
}

// ListTransactions returns the history of a card newest first, with staff name and entry work date
func (r *GiftCardRepository) ListTransactions(ctx context.Context, giftCardID int64) ([]models.GiftCardTransaction, error) {
	query := `
		SELECT gct.id, gct.gift_card_id, gct.transaction_type, gct.amount_cents,
		       gct.entry_id, gct.staff_id, s.name AS staff_name, e.work_date AS work_date,
		       gct.notes, gct.created_at
		FROM gift_card_transactions gct
		LEFT JOIN staff s ON s.id = gct.staff_id
		LEFT JOIN entries e ON e.id = gct.entry_id
		WHERE gct.gift_card_id = ?
		ORDER BY gct.created_at DESC, gct.id DESC
	`

	txns := []models.GiftCardTransaction{}
	if err := r.db.SelectContext(ctx, &txns, query, giftCardID); err != nil {
		return nil, fmt.Errorf("failed to list gift card transactions: %w", err)
	}
	return txns, nil
}

// UpdateBalance sets the remaining balance and status of a card
func (r *GiftCardRepository) UpdateBalance(ctx context.Context, id, remainingCents int64, status string) error {
	query := `
		UPDATE gift_cards
		SET remaining_amount_cents = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, remainingCents, status, id); err != nil {
		return fmt.Errorf("failed to update gift card balance: %w", err)
	}
	return nil
}

// UpdateMetadata rewrites the customer-facing fields and status, leaving balances alone.
// Returns false when no card has the id.
func (r *GiftCardRepository) UpdateMetadata(ctx context.Context, id int64, input models.UpdateGiftCardInput) (bool, error) {
	query := `
		UPDATE gift_cards
		SET customer_name = ?, customer_phone = ?, customer_email = ?,
		    status = ?, expires_at = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		input.CustomerName,
		input.CustomerPhone,
		input.CustomerEmail,
		input.Status,
		input.ExpiresAt,
		input.Notes,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update gift card: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows > 0, nil
}

// Delete removes a card and its transactions. Returns false when no card has the id.
func (r *GiftCardRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM gift_card_transactions WHERE gift_card_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete gift card transactions: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM gift_cards WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete gift card: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows > 0, nil
}

// CountTransactions returns how many audit rows reference a card id
func (r *GiftCardRepository) CountTransactions(ctx context.Context, giftCardID int64) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM gift_card_transactions WHERE gift_card_id = ?`, giftCardID); err != nil {
		return 0, fmt.Errorf("failed to count gift card transactions: %w", err)
	}
	return count, nil
}
