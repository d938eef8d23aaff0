package services

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/staffrevenue/revenue-manager/pkg/validator"
)

// IncomeService produces the per-day income report
type IncomeService struct {
	store    *database.Store
	income   *database.IncomeRepository
	settings *database.SettingRepository
	dates    *validator.DateValidator
	logger   logrus.FieldLogger
}

// NewIncomeService creates a new IncomeService
func NewIncomeService(store *database.Store, logger logrus.FieldLogger) *IncomeService {
	return &IncomeService{
		store:    store,
		income:   database.NewIncomeRepository(store),
		settings: database.NewSettingRepository(store),
		dates:    validator.NewDateValidator(),
		logger:   logger,
	}
}

// GST returns 10% of gross rounded half up, in whole cents
func GST(grossCents int64) int64 {
	return floorDiv(grossCents+5, 10)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ComputeDay derives GST and net for one date
func ComputeDay(date string, grossCents, wagesCents, expensesCents, rentCents int64) models.DaySummary {
	gst := GST(grossCents)
	return models.DaySummary{
		Date:               date,
		GrossCents:         grossCents,
		WagesCents:         wagesCents,
		RentAllocatedCents: rentCents,
		ExpensesCents:      expensesCents,
		GSTCents:           gst,
		NetCents:           grossCents - gst - wagesCents - rentCents - expensesCents,
	}
}

// Totals adds up every column of a report
func Totals(days []models.DaySummary) models.DaySummary {
	var total models.DaySummary
	for _, d := range days {
		total.GrossCents += d.GrossCents
		total.WagesCents += d.WagesCents
		total.RentAllocatedCents += d.RentAllocatedCents
		total.ExpensesCents += d.ExpensesCents
		total.GSTCents += d.GSTCents
		total.NetCents += d.NetCents
	}
	return total
}

// Summary returns one line per date in [start, end] that has revenue, a working shift
// or an expense, ascending. All reads share one transaction so the report is a
// consistent snapshot. The current rent setting is charged to every date.
func (s *IncomeService) Summary(ctx context.Context, start, end string) ([]models.DaySummary, error) {
	start, end, err := s.dates.ValidateRange(start, end)
	if err != nil {
		if errors.Is(err, validator.ErrInvertedRange) {
			return nil, validationError("start date must not be after end date")
		}
		return nil, validationError("start and end must be dates in YYYY-MM-DD format")
	}

	days := []models.DaySummary{}
	err = s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		income := s.income.WithTx(tx)

		dates, err := income.Dates(ctx, start, end)
		if err != nil {
			return err
		}
		if len(dates) == 0 {
			return nil
		}

		gross, err := income.GrossByDate(ctx, start, end)
		if err != nil {
			return err
		}
		wages, err := income.WagesByDate(ctx, start, end)
		if err != nil {
			return err
		}
		expenses, err := income.ExpensesByDate(ctx, start, end)
		if err != nil {
			return err
		}
		rent, err := loadRent(ctx, s.settings.WithTx(tx))
		if err != nil {
			return err
		}

		grossByDate := byDate(gross)
		wagesByDate := byDate(wages)
		expensesByDate := byDate(expenses)

		for _, date := range dates {
			days = append(days, ComputeDay(date,
				grossByDate[date],
				wagesByDate[date],
				expensesByDate[date],
				rent.AmountCents,
			))
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "compute income summary")
	}

	return days, nil
}

func byDate(rows []models.DateAmount) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		m[r.Date] = r.Cents
	}
	return m
}
