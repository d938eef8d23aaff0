package services

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/staffrevenue/revenue-manager/pkg/validator"
)

// PayrollService handles default wages and the scheduled shifts that drive wages
type PayrollService struct {
	store  *database.Store
	staff  *database.StaffRepository
	rates  *database.StaffRateRepository
	shifts *database.ScheduledShiftRepository
	dates  *validator.DateValidator
	logger logrus.FieldLogger
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(store *database.Store, logger logrus.FieldLogger) *PayrollService {
	return &PayrollService{
		store:  store,
		staff:  database.NewStaffRepository(store),
		rates:  database.NewStaffRateRepository(store),
		shifts: database.NewScheduledShiftRepository(store),
		dates:  validator.NewDateValidator(),
		logger: logger,
	}
}

// ListRates returns the default daily wage of every active staff member
func (s *PayrollService) ListRates(ctx context.Context) ([]models.StaffRate, error) {
	rates, err := s.rates.ListActive(ctx)
	if err != nil {
		return nil, storeError(err, "list staff rates")
	}
	return rates, nil
}

// UpsertRate sets the default daily wage of a staff member
func (s *PayrollService) UpsertRate(ctx context.Context, staffID, wageCents int64) error {
	if wageCents < 0 {
		return validationError("wage must not be negative")
	}
	if err := s.requireStaff(ctx, s.staff, staffID); err != nil {
		return err
	}

	if err := s.rates.Upsert(ctx, staffID, wageCents); err != nil {
		return storeError(err, "update staff rate")
	}
	return nil
}

// ListShifts returns the working shifts of a date
func (s *PayrollService) ListShifts(ctx context.Context, date string) ([]models.ScheduledShift, error) {
	date, err := s.validDate(date)
	if err != nil {
		return nil, err
	}

	shifts, err := s.shifts.ListWorking(ctx, date)
	if err != nil {
		return nil, storeError(err, "list shifts")
	}
	return shifts, nil
}

// UpsertShift schedules a staff member to work a date for a wage
func (s *PayrollService) UpsertShift(ctx context.Context, staffID int64, date string, wageCents int64, note string) error {
	if wageCents < 0 {
		return validationError("wage must not be negative")
	}
	date, err := s.validDate(date)
	if err != nil {
		return err
	}
	if err := s.requireStaff(ctx, s.staff, staffID); err != nil {
		return err
	}

	err = s.shifts.Upsert(ctx, models.ScheduledShift{
		StaffID:   staffID,
		WorkDate:  date,
		IsWorking: true,
		WageCents: wageCents,
		Note:      strings.TrimSpace(note),
	})
	if err != nil {
		return storeError(err, "save shift")
	}
	return nil
}

// DeleteShift removes the schedule row of a staff member on a date
func (s *PayrollService) DeleteShift(ctx context.Context, staffID int64, date string) error {
	date, err := s.validDate(date)
	if err != nil {
		return err
	}

	deleted, err := s.shifts.Delete(ctx, staffID, date)
	if err != nil {
		return storeError(err, "delete shift")
	}
	if !deleted {
		return notFound("no shift for staff %d on %s", staffID, date)
	}
	return nil
}

// ListSchedule returns every schedule row of a date, working or not
func (s *PayrollService) ListSchedule(ctx context.Context, date string) ([]models.ScheduledShift, error) {
	date, err := s.validDate(date)
	if err != nil {
		return nil, err
	}

	schedule, err := s.shifts.ListByDate(ctx, date)
	if err != nil {
		return nil, storeError(err, "list schedule")
	}
	return schedule, nil
}

// SetWorking marks a staff member as working or off on a date.
// Working keeps an existing positive wage, otherwise the default rate is used.
// Off keeps the row and its wage for history; only working rows count as wages.
func (s *PayrollService) SetWorking(ctx context.Context, staffID int64, date string, working bool) error {
	date, err := s.validDate(date)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.requireStaff(ctx, s.staff.WithTx(tx), staffID); err != nil {
			return err
		}

		shifts := s.shifts.WithTx(tx)
		existing, err := shifts.Get(ctx, staffID, date)
		if err != nil {
			return err
		}

		shift := models.ScheduledShift{StaffID: staffID, WorkDate: date, IsWorking: working}
		if existing != nil {
			shift.WageCents = existing.WageCents
			shift.Note = existing.Note
		}

		if working && shift.WageCents <= 0 {
			shift.WageCents, err = s.rates.WithTx(tx).GetDefaultWage(ctx, staffID)
			if err != nil {
				return err
			}
		}

		return shifts.Upsert(ctx, shift)
	})
	if err != nil {
		return storeError(err, "update work schedule")
	}

	s.logger.WithFields(logrus.Fields{
		"staff_id":   staffID,
		"work_date":  date,
		"is_working": working,
	}).Debug("Work schedule updated")
	return nil
}

func (s *PayrollService) requireStaff(ctx context.Context, repo *database.StaffRepository, staffID int64) error {
	staff, err := repo.GetByID(ctx, staffID)
	if err != nil {
		return storeError(err, "get staff")
	}
	if staff == nil {
		return notFound("staff %d not found", staffID)
	}
	return nil
}

func (s *PayrollService) validDate(date string) (string, error) {
	date, err := s.dates.Validate(date)
	if err != nil {
		return "", validationError("date must be in YYYY-MM-DD format")
	}
	return date, nil
}
