package models

import "time"

// Payment methods accepted for an entry
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodGiftCard = "gift_card"
)

// IsValidPaymentMethod reports whether m is a known payment method
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodGiftCard:
		return true
	}
	return false
}

// Entry is a single revenue transaction recorded by a staff member
type Entry struct {
	ID            int64     `db:"id" json:"id"`
	StaffID       int64     `db:"staff_id" json:"staff_id"`
	StaffName     string    `db:"staff_name" json:"staff_name,omitempty"`
	AmountCents   int64     `db:"amount_cents" json:"amount_cents"`
	Note          string    `db:"note" json:"note"`
	WorkDate      string    `db:"work_date" json:"work_date"`
	OrderNumber   *string   `db:"order_number" json:"order_number,omitempty"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CreateEntryInput holds the fields for a new entry
type CreateEntryInput struct {
	StaffID       int64   `json:"staff_id"`
	AmountCents   int64   `json:"amount_cents"`
	Note          string  `json:"note"`
	WorkDate      string  `json:"work_date"`
	PaymentMethod string  `json:"payment_method"`
	OrderNumber   *string `json:"order_number,omitempty"`
}

// UpdateEntryInput holds the mutable fields of an entry
type UpdateEntryInput struct {
	AmountCents   int64  `json:"amount_cents"`
	Note          string `json:"note"`
	PaymentMethod string `json:"payment_method"`
}

// TransactionFilter narrows the transactions view
type TransactionFilter struct {
	StartDate     string
	EndDate       string
	StaffID       int64
	PaymentMethod string
	Limit         int
	Offset        int
}

// PaymentMethodSummary aggregates entries per payment method
type PaymentMethodSummary struct {
	PaymentMethod string  `db:"payment_method" json:"payment_method"`
	Count         int64   `db:"count" json:"count"`
	TotalCents    int64   `db:"total_cents" json:"total_cents"`
	AvgCents      float64 `db:"avg_cents" json:"avg_cents"`
}

// Statistic periods
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// PeriodTotal is the revenue total of one day, week or month
type PeriodTotal struct {
	Period     string `db:"period" json:"period"`
	TotalCents int64  `db:"total_cents" json:"total_cents"`
}
