package validator

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for work, expense and report dates
const DateLayout = "2006-01-02"

var (
	// ErrEmptyDate indicates a required date is missing
	ErrEmptyDate = errors.New("date cannot be empty")

	// ErrInvalidDate indicates a date is not a real YYYY-MM-DD calendar date
	ErrInvalidDate = errors.New("date must be a calendar date in YYYY-MM-DD format")

	// ErrInvertedRange indicates the start of a range is after its end
	ErrInvertedRange = errors.New("start date must not be after end date")

	// ErrNonPositiveAmount indicates a money amount that must be greater than zero
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")

	// ErrNegativeAmount indicates a money amount that must not be negative
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// DateValidator handles calendar date validation
type DateValidator struct{}

// NewDateValidator creates a new date validator instance
func NewDateValidator() *DateValidator {
	return &DateValidator{}
}

// Validate checks a YYYY-MM-DD date and returns it trimmed.
// Dates that parse but are not in canonical form (e.g. "2024-1-5") are rejected
// because dates are compared as strings in storage.
func (v *DateValidator) Validate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", ErrEmptyDate
	}

	parsed, err := time.Parse(DateLayout, date)
	if err != nil || parsed.Format(DateLayout) != date {
		return "", ErrInvalidDate
	}

	return date, nil
}

// ValidateRange checks both ends of an inclusive range and their order
func (v *DateValidator) ValidateRange(start, end string) (string, string, error) {
	start, err := v.Validate(start)
	if err != nil {
		return "", "", err
	}

	end, err = v.Validate(end)
	if err != nil {
		return "", "", err
	}

	// canonical dates order lexically
	if start > end {
		return "", "", ErrInvertedRange
	}

	return start, end, nil
}

// IsValid is a convenience method that returns true if date is valid
func (v *DateValidator) IsValid(date string) bool {
	_, err := v.Validate(date)
	return err == nil
}

// Today returns the local calendar date
func Today() string {
	return time.Now().Format(DateLayout)
}

// ValidatePositiveCents checks an amount that must be greater than zero
func ValidatePositiveCents(cents int64) error {
	if cents <= 0 {
		return ErrNonPositiveAmount
	}
	return nil
}

// ValidateNonNegativeCents checks an amount that may be zero
func ValidateNonNegativeCents(cents int64) error {
	if cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}
