package services

import (
	"context"
	"testing"

	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGST(t *testing.T) {
	tests := []struct {
		gross int64
		want  int64
	}{
		{25000, 2500},
		{25, 3},
		{24, 2},
		{15, 2},
		{14, 1},
		{4, 0},
		{5, 1},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GST(tt.gross), "gross=%d", tt.gross)
	}
}

func TestComputeDay(t *testing.T) {
	day := ComputeDay("2024-01-05", 25000, 8000, 2000, 40000)
	assert.Equal(t, models.DaySummary{
		Date:               "2024-01-05",
		GrossCents:         25000,
		WagesCents:         8000,
		RentAllocatedCents: 40000,
		ExpensesCents:      2000,
		GSTCents:           2500,
		NetCents:           -27500,
	}, day)
}

func TestTotals(t *testing.T) {
	days := []models.DaySummary{
		ComputeDay("2024-01-05", 25000, 8000, 2000, 40000),
		ComputeDay("2024-01-06", 0, 0, 5000, 40000),
	}

	total := Totals(days)
	assert.Equal(t, int64(25000), total.GrossCents)
	assert.Equal(t, int64(8000), total.WagesCents)
	assert.Equal(t, int64(80000), total.RentAllocatedCents)
	assert.Equal(t, int64(7000), total.ExpensesCents)
	assert.Equal(t, int64(2500), total.GSTCents)
	assert.Equal(t, int64(-27500-45000), total.NetCents)
	assert.Empty(t, total.Date)

	assert.Equal(t, models.DaySummary{}, Totals(nil))
}

func TestIncomeService_Summary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	logger := testLogger()

	staffSvc := NewStaffService(store, logger)
	entrySvc := NewEntryService(store, nil, logger)
	payrollSvc := NewPayrollService(store, logger)
	expenseSvc := NewExpenseService(store, logger)
	settingsSvc := NewSettingsService(store, logger)
	svc := NewIncomeService(store, logger)

	anh, err := staffSvc.Create(ctx, "Anh")
	require.NoError(t, err)
	binh, err := staffSvc.Create(ctx, "Binh")
	require.NoError(t, err)

	_, err = entrySvc.Create(ctx, models.CreateEntryInput{StaffID: anh.ID, AmountCents: 20000, WorkDate: "2024-01-05"})
	require.NoError(t, err)
	_, err = entrySvc.Create(ctx, models.CreateEntryInput{StaffID: binh.ID, AmountCents: 5000, WorkDate: "2024-01-05", PaymentMethod: "cash"})
	require.NoError(t, err)
	require.NoError(t, payrollSvc.UpsertShift(ctx, anh.ID, "2024-01-05", 8000, ""))
	_, err = expenseSvc.Create(ctx, models.ExpenseInput{
		ExpenseDate: "2024-01-05", Category: "materials", Description: "polish", AmountCents: 2000,
	})
	require.NoError(t, err)

	_, err = expenseSvc.Create(ctx, models.ExpenseInput{
		ExpenseDate: "2024-01-07", Category: "utilities", Description: "power", AmountCents: 5000,
	})
	require.NoError(t, err)

	// Off days carry no wage even when a wage is stored
	require.NoError(t, payrollSvc.UpsertShift(ctx, binh.ID, "2024-01-06", 9000, ""))
	require.NoError(t, payrollSvc.SetWorking(ctx, binh.ID, "2024-01-06", false))

	t.Run("Scenario day", func(t *testing.T) {
		days, err := svc.Summary(ctx, "2024-01-05", "2024-01-05")
		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Equal(t, ComputeDay("2024-01-05", 25000, 8000, 2000, 40000), days[0])
		assert.Equal(t, int64(-27500), days[0].NetCents)
	})

	t.Run("Range skips empty dates", func(t *testing.T) {
		days, err := svc.Summary(ctx, "2024-01-01", "2024-01-31")
		require.NoError(t, err)
		require.Len(t, days, 2)
		assert.Equal(t, "2024-01-05", days[0].Date)

		expenseOnly := days[1]
		assert.Equal(t, "2024-01-07", expenseOnly.Date)
		assert.Zero(t, expenseOnly.GrossCents)
		assert.Zero(t, expenseOnly.GSTCents)
		assert.Zero(t, expenseOnly.WagesCents)
		assert.Equal(t, int64(-40000-5000), expenseOnly.NetCents)
	})

	t.Run("Current rent applies retroactively", func(t *testing.T) {
		require.NoError(t, settingsSvc.UpdateRent(ctx, 10000, "weekly"))
		t.Cleanup(func() { _ = settingsSvc.UpdateRent(ctx, 40000, "daily") })

		days, err := svc.Summary(ctx, "2024-01-05", "2024-01-07")
		require.NoError(t, err)
		require.Len(t, days, 2)
		for _, d := range days {
			assert.Equal(t, int64(10000), d.RentAllocatedCents)
		}
		assert.Equal(t, int64(25000-2500-8000-10000-2000), days[0].NetCents)
	})

	t.Run("Empty range", func(t *testing.T) {
		days, err := svc.Summary(ctx, "2023-01-01", "2023-01-31")
		require.NoError(t, err)
		assert.NotNil(t, days)
		assert.Empty(t, days)
	})

	t.Run("Invalid range", func(t *testing.T) {
		_, err := svc.Summary(ctx, "2024-01-31", "2024-01-01")
		assert.Equal(t, KindValidation, KindOf(err))

		_, err = svc.Summary(ctx, "2024-1-5", "2024-01-31")
		assert.Equal(t, KindValidation, KindOf(err))

		_, err = svc.Summary(ctx, "", "2024-01-31")
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("Store closed", func(t *testing.T) {
		closed := newTestStore(t)
		require.NoError(t, closed.Close())

		_, err := NewIncomeService(closed, logger).Summary(ctx, "2024-01-01", "2024-01-31")
		assert.Equal(t, KindStoreUnavailable, KindOf(err))
	})
}
