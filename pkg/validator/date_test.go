package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateValidator(t *testing.T) {
	validator := NewDateValidator()
	assert.NotNil(t, validator)
}

func TestValidate_ValidDates(t *testing.T) {
	validator := NewDateValidator()

	validDates := []struct {
		input    string
		expected string
		name     string
	}{
		{"2024-01-01", "2024-01-01", "Standard format"},
		{" 2024-02-29 ", "2024-02-29", "Leap day with spaces"},
		{"1999-12-31", "1999-12-31", "Last day of year"},
	}

	for _, tc := range validDates {
		t.Run(tc.name, func(t *testing.T) {
			date, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, date)
		})
	}
}

func TestValidate_InvalidDates(t *testing.T) {
	validator := NewDateValidator()

	invalidDates := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyDate, "Empty"},
		{"   ", ErrEmptyDate, "Only spaces"},
		{"2023-02-29", ErrInvalidDate, "Not a leap year"},
		{"2024-13-01", ErrInvalidDate, "Month out of range"},
		{"2024-1-5", ErrInvalidDate, "Not zero padded"},
		{"01/05/2024", ErrInvalidDate, "Slash format"},
		{"2024-01-01T10:00:00Z", ErrInvalidDate, "Timestamp"},
	}

	for _, tc := range invalidDates {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.False(t, validator.IsValid(tc.input))
		})
	}
}

func TestValidateRange(t *testing.T) {
	validator := NewDateValidator()

	t.Run("Ordered", func(t *testing.T) {
		start, end, err := validator.ValidateRange("2024-01-01", "2024-01-31")
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01", start)
		assert.Equal(t, "2024-01-31", end)
	})

	t.Run("Single day", func(t *testing.T) {
		_, _, err := validator.ValidateRange("2024-01-01", "2024-01-01")
		assert.NoError(t, err)
	})

	t.Run("Inverted", func(t *testing.T) {
		_, _, err := validator.ValidateRange("2024-02-01", "2024-01-31")
		assert.ErrorIs(t, err, ErrInvertedRange)
	})

	t.Run("Bad end", func(t *testing.T) {
		_, _, err := validator.ValidateRange("2024-02-01", "soon")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestAmounts(t *testing.T) {
	assert.NoError(t, ValidatePositiveCents(1))
	assert.ErrorIs(t, ValidatePositiveCents(0), ErrNonPositiveAmount)
	assert.ErrorIs(t, ValidatePositiveCents(-5), ErrNonPositiveAmount)

	assert.NoError(t, ValidateNonNegativeCents(0))
	assert.ErrorIs(t, ValidateNonNegativeCents(-1), ErrNegativeAmount)
}

func TestToday(t *testing.T) {
	assert.True(t, NewDateValidator().IsValid(Today()))
}
