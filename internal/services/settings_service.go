package services

import (
	"context"
	"crypto/subtle"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/models"
)

// SettingsService handles the rent allocation and the shared payroll password / expenses PIN
type SettingsService struct {
	settings *database.SettingRepository
	logger   logrus.FieldLogger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(store *database.Store, logger logrus.FieldLogger) *SettingsService {
	return &SettingsService{
		settings: database.NewSettingRepository(store),
		logger:   logger,
	}
}

// GetRent returns the current rent allocation, falling back to the defaults
// when the settings are missing or malformed
func (s *SettingsService) GetRent(ctx context.Context) (*models.RentSetting, error) {
	rent, err := loadRent(ctx, s.settings)
	if err != nil {
		return nil, storeError(err, "get rent setting")
	}
	return &rent, nil
}

// UpdateRent stores a new rent allocation
func (s *SettingsService) UpdateRent(ctx context.Context, amountCents int64, period string) error {
	if amountCents < 0 {
		return validationError("rent amount must not be negative")
	}
	period = strings.TrimSpace(period)
	if period == "" {
		period = models.DefaultRentPeriod
	}
	if !models.IsValidRentPeriod(period) {
		return validationError("rent period must be one of daily, weekly, monthly")
	}

	if err := s.settings.Set(ctx, models.SettingRentAmountCents, strconv.FormatInt(amountCents, 10)); err != nil {
		return storeError(err, "update rent amount")
	}
	if err := s.settings.Set(ctx, models.SettingRentPeriod, period); err != nil {
		return storeError(err, "update rent period")
	}

	s.logger.WithFields(logrus.Fields{
		"amount_cents": amountCents,
		"period":       period,
	}).Info("Rent setting updated")
	return nil
}

// CheckPayrollPassword reports whether password matches the payroll password
func (s *SettingsService) CheckPayrollPassword(ctx context.Context, password string) (bool, error) {
	return s.checkSecret(ctx, models.SettingPayrollPassword, password)
}

// ChangePayrollPassword replaces the payroll password after checking the current one
func (s *SettingsService) ChangePayrollPassword(ctx context.Context, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return validationError("new password is required")
	}
	return s.changeSecret(ctx, models.SettingPayrollPassword, oldPassword, newPassword, "current password is incorrect")
}

// CheckExpensesPIN reports whether pin matches the expenses PIN
func (s *SettingsService) CheckExpensesPIN(ctx context.Context, pin string) (bool, error) {
	return s.checkSecret(ctx, models.SettingExpensesPIN, pin)
}

// ChangeExpensesPIN replaces the expenses PIN after checking the current one
func (s *SettingsService) ChangeExpensesPIN(ctx context.Context, oldPIN, newPIN string) error {
	newPIN = strings.TrimSpace(newPIN)
	if newPIN == "" {
		return validationError("new PIN is required")
	}
	for _, r := range newPIN {
		if r < '0' || r > '9' {
			return validationError("PIN must contain digits only")
		}
	}
	return s.changeSecret(ctx, models.SettingExpensesPIN, oldPIN, newPIN, "current PIN is incorrect")
}

func (s *SettingsService) checkSecret(ctx context.Context, key, candidate string) (bool, error) {
	stored, ok, err := s.settings.Get(ctx, key)
	if err != nil {
		return false, storeError(err, "read "+key)
	}
	if !ok {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
}

func (s *SettingsService) changeSecret(ctx context.Context, key, oldValue, newValue, mismatch string) error {
	valid, err := s.checkSecret(ctx, key, oldValue)
	if err != nil {
		return err
	}
	if !valid {
		return unauthorized("%s", mismatch)
	}

	if err := s.settings.Set(ctx, key, newValue); err != nil {
		return storeError(err, "update "+key)
	}

	s.logger.WithField("setting", key).Info("Secret changed")
	return nil
}

// loadRent reads the rent setting through repo, which may be bound to a transaction
func loadRent(ctx context.Context, repo *database.SettingRepository) (models.RentSetting, error) {
	values, err := repo.GetMany(ctx, models.SettingRentAmountCents, models.SettingRentPeriod)
	if err != nil {
		return models.RentSetting{}, err
	}

	rent := models.RentSetting{
		AmountCents: models.DefaultRentAmountCents,
		Period:      models.DefaultRentPeriod,
	}
	if raw, ok := values[models.SettingRentAmountCents]; ok {
		if cents, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil && cents >= 0 {
			rent.AmountCents = cents
		}
	}
	if period, ok := values[models.SettingRentPeriod]; ok && models.IsValidRentPeriod(period) {
		rent.Period = period
	}
	return rent, nil
}
