package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/staffrevenue/revenue-manager/pkg/validator"
)

// ExpenseService handles discretionary daily expenses
type ExpenseService struct {
	expenses *database.ExpenseRepository
	dates    *validator.DateValidator
	logger   logrus.FieldLogger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(store *database.Store, logger logrus.FieldLogger) *ExpenseService {
	return &ExpenseService{
		expenses: database.NewExpenseRepository(store),
		dates:    validator.NewDateValidator(),
		logger:   logger,
	}
}

// List returns the expenses of one date, of a range, or the latest ones
func (s *ExpenseService) List(ctx context.Context, filter models.ExpenseFilter) ([]models.DailyExpense, error) {
	switch {
	case filter.Date != "":
		date, err := s.dates.Validate(filter.Date)
		if err != nil {
			return nil, validationError("date must be in YYYY-MM-DD format")
		}
		filter = models.ExpenseFilter{Date: date}
	case filter.StartDate != "" || filter.EndDate != "":
		start, end, err := s.dates.ValidateRange(filter.StartDate, filter.EndDate)
		if err != nil {
			return nil, validationError("invalid date range: %v", err)
		}
		filter = models.ExpenseFilter{StartDate: start, EndDate: end}
	}

	expenses, err := s.expenses.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "list expenses")
	}
	return expenses, nil
}

// Create books a new expense
func (s *ExpenseService) Create(ctx context.Context, input models.ExpenseInput) (*models.DailyExpense, error) {
	input, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	id, err := s.expenses.Insert(ctx, input)
	if err != nil {
		return nil, storeError(err, "create expense")
	}

	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "create expense")
	}

	s.logger.WithFields(logrus.Fields{
		"expense_id":   id,
		"category":     input.Category,
		"amount_cents": input.AmountCents,
	}).Info("Expense created")
	return expense, nil
}

// Update rewrites an expense
func (s *ExpenseService) Update(ctx context.Context, id int64, input models.ExpenseInput) error {
	input, err := s.validate(input)
	if err != nil {
		return err
	}

	updated, err := s.expenses.Update(ctx, id, input)
	if err != nil {
		return storeError(err, "update expense")
	}
	if !updated {
		return notFound("expense %d not found", id)
	}
	return nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.expenses.Delete(ctx, id)
	if err != nil {
		return storeError(err, "delete expense")
	}
	if !deleted {
		return notFound("expense %d not found", id)
	}
	return nil
}

// Summary totals expenses per date and category
func (s *ExpenseService) Summary(ctx context.Context, start, end string) ([]models.ExpenseSummaryRow, error) {
	start, end, err := s.dates.ValidateRange(start, end)
	if err != nil {
		return nil, validationError("invalid date range: %v", err)
	}

	rows, err := s.expenses.Summary(ctx, start, end)
	if err != nil {
		return nil, storeError(err, "summarize expenses")
	}
	return rows, nil
}

func (s *ExpenseService) validate(input models.ExpenseInput) (models.ExpenseInput, error) {
	date, err := s.dates.Validate(input.ExpenseDate)
	if err != nil {
		return input, validationError("expense date must be in YYYY-MM-DD format")
	}
	input.ExpenseDate = date

	input.Category = strings.TrimSpace(input.Category)
	if !models.IsValidExpenseCategory(input.Category) {
		return input, validationError("category must be one of materials, utilities, rent, other")
	}

	input.Description = strings.TrimSpace(input.Description)
	if input.Description == "" {
		return input, validationError("description is required")
	}

	if input.AmountCents <= 0 {
		return input, validationError("amount must be greater than zero")
	}

	input.Notes = strings.TrimSpace(input.Notes)
	return input, nil
}
