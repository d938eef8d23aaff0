package models

// DaySummary is the income report line of a single date
type DaySummary struct {
	Date               string `json:"date"`
	GrossCents         int64  `json:"gross_cents"`
	WagesCents         int64  `json:"wages_cents"`
	RentAllocatedCents int64  `json:"rent_allocated_cents"`
	ExpensesCents      int64  `json:"expenses_cents"`
	GSTCents           int64  `json:"gst_cents"`
	NetCents           int64  `json:"net_cents"`
}

// DateAmount is a per-date sum read from one ledger
type DateAmount struct {
	Date  string `db:"date"`
	Cents int64  `db:"cents"`
}
