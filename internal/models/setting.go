package models

// Setting keys
const (
	SettingPayrollPassword = "payroll_password"
	SettingExpensesPIN     = "expenses_pin"
	SettingRentAmountCents = "rent_amount_cents"
	SettingRentPeriod      = "rent_period"
)

// Rent defaults used when the settings rows are missing or malformed
const (
	DefaultRentAmountCents int64 = 40000
	DefaultRentPeriod            = "daily"
)

// IsValidRentPeriod reports whether p is an accepted rent period
func IsValidRentPeriod(p string) bool {
	switch p {
	case "daily", "weekly", "monthly":
		return true
	}
	return false
}

// Setting is a key/value row of the settings table
type Setting struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}

// RentSetting is the current rent allocation
type RentSetting struct {
	AmountCents int64  `json:"amount"`
	Period      string `json:"period"`
}
