package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/metrics"
	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/staffrevenue/revenue-manager/pkg/validator"
)

const (
	defaultTransactionLimit = 100
	maxTransactionLimit     = 500
)

// EntryService records revenue entries and reports on them
type EntryService struct {
	entries *database.EntryRepository
	staff   *database.StaffRepository
	dates   *validator.DateValidator
	metrics *metrics.LedgerMetrics
	logger  logrus.FieldLogger
}

// NewEntryService creates a new EntryService
func NewEntryService(store *database.Store, m *metrics.LedgerMetrics, logger logrus.FieldLogger) *EntryService {
	return &EntryService{
		entries: database.NewEntryRepository(store),
		staff:   database.NewStaffRepository(store),
		dates:   validator.NewDateValidator(),
		metrics: m,
		logger:  logger,
	}
}

// List returns the entries of an inclusive date range
func (s *EntryService) List(ctx context.Context, start, end string) ([]models.Entry, error) {
	start, end, err := s.validRange(start, end)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.List(ctx, start, end)
	if err != nil {
		return nil, storeError(err, "list entries")
	}
	return entries, nil
}

// Create records a revenue entry. Payment method defaults to card.
func (s *EntryService) Create(ctx context.Context, input models.CreateEntryInput) (*models.Entry, error) {
	if input.AmountCents <= 0 {
		return nil, validationError("amount must be greater than zero")
	}

	date, err := s.dates.Validate(input.WorkDate)
	if err != nil {
		return nil, validationError("work date must be a date in YYYY-MM-DD format")
	}
	input.WorkDate = date

	input.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentMethodCard
	}
	if !models.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, validationError("payment method must be one of cash, card, gift_card")
	}
	input.Note = strings.TrimSpace(input.Note)
	input.OrderNumber = trimOptional(input.OrderNumber)

	staff, err := s.staff.GetByID(ctx, input.StaffID)
	if err != nil {
		return nil, storeError(err, "create entry")
	}
	if staff == nil {
		return nil, notFound("staff %d not found", input.StaffID)
	}

	id, err := s.entries.Insert(ctx, input)
	if err != nil {
		return nil, storeError(err, "create entry")
	}

	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "create entry")
	}

	s.metrics.RecordEntry(input.PaymentMethod, input.AmountCents)
	s.logger.WithFields(logrus.Fields{
		"entry_id":       id,
		"staff_id":       input.StaffID,
		"amount_cents":   input.AmountCents,
		"payment_method": input.PaymentMethod,
	}).Debug("Entry recorded")

	return entry, nil
}

// Update changes the amount, note and payment method of an entry
func (s *EntryService) Update(ctx context.Context, id int64, input models.UpdateEntryInput) error {
	if input.AmountCents <= 0 {
		return validationError("amount must be greater than zero")
	}

	input.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentMethodCard
	}
	if !models.IsValidPaymentMethod(input.PaymentMethod) {
		return validationError("payment method must be one of cash, card, gift_card")
	}
	input.Note = strings.TrimSpace(input.Note)

	updated, err := s.entries.Update(ctx, id, input)
	if err != nil {
		return storeError(err, "update entry")
	}
	if !updated {
		return notFound("entry %d not found", id)
	}
	return nil
}

// Delete removes an entry
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.entries.Delete(ctx, id)
	if err != nil {
		return storeError(err, "delete entry")
	}
	if !deleted {
		return notFound("entry %d not found", id)
	}
	return nil
}

// ListTransactions returns entries matching filter, most recently recorded first
func (s *EntryService) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Entry, error) {
	if filter.StartDate != "" && !s.dates.IsValid(filter.StartDate) {
		return nil, validationError("start date must be a date in YYYY-MM-DD format")
	}
	if filter.EndDate != "" && !s.dates.IsValid(filter.EndDate) {
		return nil, validationError("end date must be a date in YYYY-MM-DD format")
	}
	if filter.PaymentMethod != "" && !models.IsValidPaymentMethod(filter.PaymentMethod) {
		return nil, validationError("payment method must be one of cash, card, gift_card")
	}
	if filter.Offset < 0 {
		return nil, validationError("offset must not be negative")
	}

	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultTransactionLimit
	case filter.Limit > maxTransactionLimit:
		filter.Limit = maxTransactionLimit
	}

	entries, err := s.entries.ListTransactions(ctx, filter)
	if err != nil {
		return nil, storeError(err, "list transactions")
	}
	return entries, nil
}

// SummarizeByPaymentMethod returns count, total and average per payment method
func (s *EntryService) SummarizeByPaymentMethod(ctx context.Context, start, end string) ([]models.PaymentMethodSummary, error) {
	start, end, err := s.validRange(start, end)
	if err != nil {
		return nil, err
	}

	summary, err := s.entries.SummarizeByPaymentMethod(ctx, start, end)
	if err != nil {
		return nil, storeError(err, "summarize transactions")
	}
	return summary, nil
}

// Statistics totals revenue per day, week or month, latest period first
func (s *EntryService) Statistics(ctx context.Context, period, start, end string) ([]models.PeriodTotal, error) {
	switch period {
	case models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly:
	case "":
		period = models.PeriodDaily
	default:
		return nil, validationError("period must be one of daily, weekly, monthly")
	}

	start, end, err := s.validRange(start, end)
	if err != nil {
		return nil, err
	}

	totals, err := s.entries.SumByPeriod(ctx, period, start, end)
	if err != nil {
		return nil, storeError(err, "compute statistics")
	}
	return totals, nil
}

func (s *EntryService) validRange(start, end string) (string, string, error) {
	start, end, err := s.dates.ValidateRange(start, end)
	if err != nil {
		return "", "", validationError("invalid date range: %v", err)
	}
	return start, end, nil
}
