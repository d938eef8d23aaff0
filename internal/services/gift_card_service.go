package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaevor/go-nanoid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/metrics"
	"github.com/staffrevenue/revenue-manager/internal/models"
)

const (
	cardNumberPrefix = "GC"
	cardNumberDigits = 12
)

// GiftCardService manages the stored-value lifecycle of gift cards
type GiftCardService struct {
	store         *database.Store
	cards         *database.GiftCardRepository
	metrics       *metrics.LedgerMetrics
	logger        logrus.FieldLogger
	newCardNumber func() string
}

// NewGiftCardService creates a new GiftCardService
func NewGiftCardService(store *database.Store, m *metrics.LedgerMetrics, logger logrus.FieldLogger) (*GiftCardService, error) {
	digits, err := nanoid.CustomASCII("0123456789", cardNumberDigits)
	if err != nil {
		return nil, fmt.Errorf("failed to create card number generator: %w", err)
	}

	return &GiftCardService{
		store:   store,
		cards:   database.NewGiftCardRepository(store),
		metrics: m,
		logger:  logger,
		newCardNumber: func() string {
			return cardNumberPrefix + digits()
		},
	}, nil
}

// Create issues a new active gift card and records its purchase
func (s *GiftCardService) Create(ctx context.Context, input models.CreateGiftCardInput) (*models.GiftCardCreated, error) {
	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		return nil, validationError("customer name is required")
	}
	if input.AmountCents <= 0 {
		return nil, validationError("amount must be greater than zero")
	}

	cardNumber := strings.TrimSpace(input.CardNumber)
	if cardNumber == "" {
		cardNumber = s.newCardNumber()
	}

	card := &models.GiftCard{
		CardNumber:         cardNumber,
		CustomerName:       name,
		CustomerPhone:      trimOptional(input.CustomerPhone),
		CustomerEmail:      trimOptional(input.CustomerEmail),
		InitialAmountCents: input.AmountCents,
		ExpiresAt:          input.ExpiresAt,
		Notes:              trimOptional(input.Notes),
	}

	var id int64
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		cards := s.cards.WithTx(tx)

		var err error
		id, err = cards.Insert(ctx, card)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return newError(KindConflict, err, "gift card number %s already exists", cardNumber)
			}
			return err
		}

		note := "Gift card created"
		_, err = cards.InsertTransaction(ctx, &models.GiftCardTransaction{
			GiftCardID:      id,
			TransactionType: models.GiftCardTxPurchase,
			AmountCents:     input.AmountCents,
			Notes:           &note,
		})
		return err
	})
	if err != nil {
		return nil, storeError(err, "create gift card")
	}

	s.metrics.RecordGiftCardIssued(input.AmountCents)
	s.logger.WithFields(logrus.Fields{
		"gift_card_id": id,
		"card_number":  cardNumber,
		"amount_cents": input.AmountCents,
	}).Info("Gift card issued")

	return &models.GiftCardCreated{ID: id, CardNumber: cardNumber}, nil
}

// Use redeems part or all of a card's balance.
// The balance check, the write and the usage record happen in one transaction;
// a card that reaches zero is removed together with its history.
func (s *GiftCardService) Use(ctx context.Context, id int64, input models.UseGiftCardInput) (*models.GiftCardUsage, error) {
	if input.AmountCents <= 0 {
		return nil, validationError("amount must be greater than zero")
	}

	var usage models.GiftCardUsage
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		cards := s.cards.WithTx(tx)

		card, err := cards.GetActiveByID(ctx, id)
		if err != nil {
			return err
		}
		if card == nil {
			return notFound("gift card %d not found or not active", id)
		}

		if input.AmountCents > card.RemainingAmountCents {
			return newError(KindInsufficientBalance, nil,
				"insufficient balance: remaining %d, requested %d", card.RemainingAmountCents, input.AmountCents)
		}

		remaining := card.RemainingAmountCents - input.AmountCents
		if remaining == 0 {
			if _, err := cards.Delete(ctx, id); err != nil {
				return err
			}
			usage = models.GiftCardUsage{RemainingAmount: 0, Status: models.GiftCardStatusUsed, Deleted: true}
			return nil
		}

		if err := cards.UpdateBalance(ctx, id, remaining, models.GiftCardStatusActive); err != nil {
			return err
		}

		note := trimOptional(input.Notes)
		if note == nil {
			defaultNote := "Gift card used for payment"
			note = &defaultNote
		}
		_, err = cards.InsertTransaction(ctx, &models.GiftCardTransaction{
			GiftCardID:      id,
			TransactionType: models.GiftCardTxUsage,
			AmountCents:     input.AmountCents,
			EntryID:         input.EntryID,
			StaffID:         input.StaffID,
			Notes:           note,
		})
		if err != nil {
			return err
		}

		usage = models.GiftCardUsage{RemainingAmount: remaining, Status: models.GiftCardStatusActive}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "use gift card")
	}

	s.metrics.RecordGiftCardRedeemed(input.AmountCents)
	if usage.Deleted {
		s.metrics.RecordGiftCardRetired(metrics.RetiredDepleted)
	}
	s.logger.WithFields(logrus.Fields{
		"gift_card_id":    id,
		"amount_cents":    input.AmountCents,
		"remaining_cents": usage.RemainingAmount,
		"deleted":         usage.Deleted,
	}).Info("Gift card used")

	return &usage, nil
}

// Update edits customer details, status, expiry and notes. Balances are never touched.
func (s *GiftCardService) Update(ctx context.Context, id int64, input models.UpdateGiftCardInput) error {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	if input.CustomerName == "" {
		return validationError("customer name is required")
	}

	// used is reached only by depletion, which removes the card
	switch input.Status {
	case models.GiftCardStatusActive, models.GiftCardStatusExpired, models.GiftCardStatusCancelled:
	default:
		return validationError("status must be one of active, expired, cancelled")
	}

	input.CustomerPhone = trimOptional(input.CustomerPhone)
	input.CustomerEmail = trimOptional(input.CustomerEmail)
	input.Notes = trimOptional(input.Notes)

	updated, err := s.cards.UpdateMetadata(ctx, id, input)
	if err != nil {
		return storeError(err, "update gift card")
	}
	if !updated {
		return notFound("gift card %d not found", id)
	}
	return nil
}

// Get returns a card with its transaction history
func (s *GiftCardService) Get(ctx context.Context, id int64) (*models.GiftCardDetail, error) {
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "get gift card")
	}
	if card == nil {
		return nil, notFound("gift card %d not found", id)
	}

	txns, err := s.cards.ListTransactions(ctx, id)
	if err != nil {
		return nil, storeError(err, "list gift card transactions")
	}

	return &models.GiftCardDetail{GiftCard: *card, Transactions: txns}, nil
}

// List returns cards newest first, optionally filtered by status and a search term
func (s *GiftCardService) List(ctx context.Context, filter models.GiftCardFilter) ([]models.GiftCard, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	if filter.Status != "" && !models.IsValidGiftCardStatus(filter.Status) {
		return nil, validationError("unknown gift card status %q", filter.Status)
	}

	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "list gift cards")
	}
	return cards, nil
}

// Search matches active cards by number, customer name or phone, ignoring case
func (s *GiftCardService) Search(ctx context.Context, query string) ([]models.GiftCardMatch, error) {
	matches, err := s.cards.SearchActive(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, storeError(err, "search gift cards")
	}
	return matches, nil
}

// Delete removes a card and its history
func (s *GiftCardService) Delete(ctx context.Context, id int64) error {
	var deleted bool
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		deleted, err = s.cards.WithTx(tx).Delete(ctx, id)
		return err
	})
	if err != nil {
		return storeError(err, "delete gift card")
	}
	if !deleted {
		return notFound("gift card %d not found", id)
	}

	s.metrics.RecordGiftCardRetired(metrics.RetiredDeleted)
	s.logger.WithField("gift_card_id", id).Info("Gift card deleted")
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
