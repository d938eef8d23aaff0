package services

import (
	"context"
	"testing"

	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseService(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewExpenseService(store, testLogger())

	polish, err := svc.Create(ctx, models.ExpenseInput{
		ExpenseDate: "2024-05-01", Category: " materials ", Description: " gel polish ", AmountCents: 3500,
	})
	require.NoError(t, err)
	assert.Equal(t, "materials", polish.Category)
	assert.Equal(t, "gel polish", polish.Description)

	_, err = svc.Create(ctx, models.ExpenseInput{
		ExpenseDate: "2024-05-01", Category: "materials", Description: "files", AmountCents: 1500,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.ExpenseInput{
		ExpenseDate: "2024-05-03", Category: "utilities", Description: "water", AmountCents: 900,
	})
	require.NoError(t, err)

	t.Run("Validation", func(t *testing.T) {
		tests := []struct {
			name  string
			input models.ExpenseInput
		}{
			{"bad date", models.ExpenseInput{ExpenseDate: "2024-13-01", Category: "other", Description: "x", AmountCents: 1}},
			{"bad category", models.ExpenseInput{ExpenseDate: "2024-05-01", Category: "food", Description: "x", AmountCents: 1}},
			{"no description", models.ExpenseInput{ExpenseDate: "2024-05-01", Category: "other", Description: " ", AmountCents: 1}},
			{"zero amount", models.ExpenseInput{ExpenseDate: "2024-05-01", Category: "other", Description: "x", AmountCents: 0}},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Create(ctx, tc.input)
				assert.Equal(t, KindValidation, KindOf(err))
			})
		}
	})

	t.Run("List modes", func(t *testing.T) {
		day, err := svc.List(ctx, models.ExpenseFilter{Date: "2024-05-01"})
		require.NoError(t, err)
		assert.Len(t, day, 2)

		rng, err := svc.List(ctx, models.ExpenseFilter{StartDate: "2024-05-02", EndDate: "2024-05-31"})
		require.NoError(t, err)
		assert.Len(t, rng, 1)

		latest, err := svc.List(ctx, models.ExpenseFilter{})
		require.NoError(t, err)
		assert.Len(t, latest, 3)

		_, err = svc.List(ctx, models.ExpenseFilter{StartDate: "2024-05-31", EndDate: "2024-05-01"})
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("Summary", func(t *testing.T) {
		rows, err := svc.Summary(ctx, "2024-05-01", "2024-05-31")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, models.ExpenseSummaryRow{ExpenseDate: "2024-05-03", Category: "utilities", TotalCents: 900, Count: 1}, rows[0])
		assert.Equal(t, models.ExpenseSummaryRow{ExpenseDate: "2024-05-01", Category: "materials", TotalCents: 5000, Count: 2}, rows[1])
	})

	t.Run("Update and delete", func(t *testing.T) {
		require.NoError(t, svc.Update(ctx, polish.ID, models.ExpenseInput{
			ExpenseDate: "2024-05-02", Category: "other", Description: "polish return", AmountCents: 100,
		}))

		day, err := svc.List(ctx, models.ExpenseFilter{Date: "2024-05-02"})
		require.NoError(t, err)
		require.Len(t, day, 1)
		assert.Equal(t, "polish return", day[0].Description)

		err = svc.Update(ctx, 999, models.ExpenseInput{ExpenseDate: "2024-05-02", Category: "other", Description: "x", AmountCents: 1})
		assert.Equal(t, KindNotFound, KindOf(err))

		require.NoError(t, svc.Delete(ctx, polish.ID))
		assert.Equal(t, KindNotFound, KindOf(svc.Delete(ctx, polish.ID)))
	})
}
