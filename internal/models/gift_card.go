package models

import "time"

// Gift card statuses
const (
	GiftCardStatusActive    = "active"
	GiftCardStatusUsed      = "used"
	GiftCardStatusExpired   = "expired"
	GiftCardStatusCancelled = "cancelled"
)

// IsValidGiftCardStatus reports whether s is a known gift card status
func IsValidGiftCardStatus(s string) bool {
	switch s {
	case GiftCardStatusActive, GiftCardStatusUsed, GiftCardStatusExpired, GiftCardStatusCancelled:
		return true
	}
	return false
}

// Gift card transaction types
const (
	GiftCardTxPurchase   = "purchase"
	GiftCardTxUsage      = "usage"
	GiftCardTxRefund     = "refund"
	GiftCardTxAdjustment = "adjustment"
)

// GiftCard is a stored-value instrument.
// Invariant: 0 <= RemainingAmountCents <= InitialAmountCents while the row exists.
type GiftCard struct {
	ID                   int64      `db:"id" json:"id"`
	CardNumber           string     `db:"card_number" json:"card_number"`
	CustomerName         string     `db:"customer_name" json:"customer_name"`
	CustomerPhone        *string    `db:"customer_phone" json:"customer_phone,omitempty"`
	CustomerEmail        *string    `db:"customer_email" json:"customer_email,omitempty"`
	InitialAmountCents   int64      `db:"initial_amount_cents" json:"initial_amount_cents"`
	RemainingAmountCents int64      `db:"remaining_amount_cents" json:"remaining_amount_cents"`
	Status               string     `db:"status" json:"status"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
	ExpiresAt            *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	Notes                *string    `db:"notes" json:"notes,omitempty"`
	TransactionCount     int64      `db:"transaction_count" json:"transaction_count"`
}

// GiftCardTransaction is an append-only audit row of a gift card
type GiftCardTransaction struct {
	ID              int64     `db:"id" json:"id"`
	GiftCardID      int64     `db:"gift_card_id" json:"gift_card_id"`
	TransactionType string    `db:"transaction_type" json:"transaction_type"`
	AmountCents     int64     `db:"amount_cents" json:"amount_cents"`
	EntryID         *int64    `db:"entry_id" json:"entry_id,omitempty"`
	StaffID         *int64    `db:"staff_id" json:"staff_id,omitempty"`
	StaffName       *string   `db:"staff_name" json:"staff_name,omitempty"`
	WorkDate        *string   `db:"work_date" json:"work_date,omitempty"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// GiftCardDetail is a gift card with its transaction history
type GiftCardDetail struct {
	GiftCard
	Transactions []GiftCardTransaction `json:"transactions"`
}

// GiftCardMatch is the compact row returned by gift card search
type GiftCardMatch struct {
	ID                   int64   `db:"id" json:"id"`
	CardNumber           string  `db:"card_number" json:"card_number"`
	CustomerName         string  `db:"customer_name" json:"customer_name"`
	CustomerPhone        *string `db:"customer_phone" json:"customer_phone,omitempty"`
	RemainingAmountCents int64   `db:"remaining_amount_cents" json:"remaining_amount_cents"`
	Status               string  `db:"status" json:"status"`
}

// CreateGiftCardInput holds the fields for issuing a gift card
type CreateGiftCardInput struct {
	CardNumber    string     `json:"cardNumber"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone *string    `json:"customerPhone,omitempty"`
	CustomerEmail *string    `json:"customerEmail,omitempty"`
	AmountCents   int64      `json:"amountCents"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// GiftCardCreated is returned after issuing a gift card
type GiftCardCreated struct {
	ID         int64  `json:"id"`
	CardNumber string `json:"cardNumber"`
}

// UseGiftCardInput holds a redemption request
type UseGiftCardInput struct {
	AmountCents int64   `json:"amountCents"`
	EntryID     *int64  `json:"entryId,omitempty"`
	StaffID     *int64  `json:"staffId,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// GiftCardUsage is the outcome of a redemption
type GiftCardUsage struct {
	RemainingAmount int64  `json:"remainingAmount"`
	Status          string `json:"status"`
	Deleted         bool   `json:"deleted"`
}

// UpdateGiftCardInput holds the editable metadata of a gift card
type UpdateGiftCardInput struct {
	CustomerName  string     `json:"customerName"`
	CustomerPhone *string    `json:"customerPhone,omitempty"`
	CustomerEmail *string    `json:"customerEmail,omitempty"`
	Status        string     `json:"status"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// GiftCardFilter narrows the gift card list
type GiftCardFilter struct {
	Status string
	Search string
}
