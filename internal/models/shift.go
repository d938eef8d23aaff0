package models

import "time"

// ScheduledShift records whether a staff member works a date and for what wage.
// It is the single source of truth for both the work schedule and payroll wages.
type ScheduledShift struct {
	ID        int64     `db:"id" json:"id"`
	StaffID   int64     `db:"staff_id" json:"staff_id"`
	StaffName string    `db:"staff_name" json:"staff_name,omitempty"`
	WorkDate  string    `db:"work_date" json:"work_date"`
	IsWorking bool      `db:"is_working" json:"is_working"`
	WageCents int64     `db:"wage_cents" json:"wage_cents"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
