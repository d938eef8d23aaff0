package models

import "time"

// Staff represents a staff member who records revenue entries
type Staff struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StaffRemoval reports how a staff removal was applied
type StaffRemoval struct {
	Deleted     bool   `json:"deleted"`
	Deactivated bool   `json:"deactivated"`
	Message     string `json:"message"`
}

// StaffRate is the default daily wage of a staff member
type StaffRate struct {
	StaffID               int64      `db:"staff_id" json:"staff_id"`
	StaffName             string     `db:"staff_name" json:"staff_name"`
	DefaultDailyWageCents int64      `db:"default_daily_wage_cents" json:"default_daily_wage_cents"`
	UpdatedAt             *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
