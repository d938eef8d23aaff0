package services

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/models"
)

// StaffService handles business logic for staff operations
type StaffService struct {
	store     *database.Store
	staffRepo *database.StaffRepository
	rateRepo  *database.StaffRateRepository
	logger    logrus.FieldLogger
}

// NewStaffService creates a new StaffService
func NewStaffService(store *database.Store, logger logrus.FieldLogger) *StaffService {
	return &StaffService{
		store:     store,
		staffRepo: database.NewStaffRepository(store),
		rateRepo:  database.NewStaffRateRepository(store),
		logger:    logger,
	}
}

// List returns staff ordered by name
func (s *StaffService) List(ctx context.Context, includeInactive bool) ([]models.Staff, error) {
	staff, err := s.staffRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, storeError(err, "list staff")
	}
	return staff, nil
}

// Create adds a staff member together with a zero default wage
func (s *StaffService) Create(ctx context.Context, name string) (*models.Staff, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("staff name is required")
	}

	var staff *models.Staff
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		staffRepo := s.staffRepo.WithTx(tx)

		id, err := staffRepo.Insert(ctx, name)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return newError(KindConflict, err, "staff %q already exists", name)
			}
			return err
		}

		if err := s.rateRepo.WithTx(tx).InsertDefault(ctx, id); err != nil {
			return err
		}

		staff, err = staffRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeError(err, "create staff")
	}

	s.logger.WithFields(logrus.Fields{"staff_id": staff.ID, "name": staff.Name}).Info("Staff created")
	return staff, nil
}

// Rename changes the display name of a staff member
func (s *StaffService) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationError("staff name is required")
	}

	renamed, err := s.staffRepo.Rename(ctx, id, name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return newError(KindConflict, err, "staff %q already exists", name)
		}
		return storeError(err, "rename staff")
	}
	if !renamed {
		return notFound("staff %d not found", id)
	}
	return nil
}

// Remove deletes a staff member without history, or deactivates one that has
// entries or scheduled shifts so reports keep their names
func (s *StaffService) Remove(ctx context.Context, id int64) (*models.StaffRemoval, error) {
	var removal models.StaffRemoval
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		staffRepo := s.staffRepo.WithTx(tx)

		staff, err := staffRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if staff == nil {
			return notFound("staff %d not found", id)
		}

		refs, err := staffRepo.CountReferences(ctx, id)
		if err != nil {
			return err
		}

		if refs > 0 {
			if _, err := staffRepo.Deactivate(ctx, id); err != nil {
				return err
			}
			removal = models.StaffRemoval{
				Deactivated: true,
				Message:     "Staff has recorded history and was deactivated instead of deleted",
			}
			return nil
		}

		if _, err := staffRepo.Delete(ctx, id); err != nil {
			return err
		}
		removal = models.StaffRemoval{Deleted: true, Message: "Staff deleted"}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "remove staff")
	}

	s.logger.WithFields(logrus.Fields{
		"staff_id":    id,
		"deleted":     removal.Deleted,
		"deactivated": removal.Deactivated,
	}).Info("Staff removed")
	return &removal, nil
}
