package services

import (
	"errors"

	"gorm.io/gorm"

	"finpilot/internal/billing"
	apperrors "finpilot/internal/errors"
	"finpilot/internal/models"
)

// cardService handles card-related business logic and derives card
// financials and invoices from the stored purchases and subscriptions.
type cardService struct {
	db    *gorm.DB
	clock Clock
}

// NewCardService creates a new CardServicer.
func NewCardService(db *gorm.DB, clock Clock) CardServicer {
	return &cardService{db: db, clock: clock}
}

// CreateCard creates a new card for a user
func (s *cardService) CreateCard(userID string, input CardInput) (*models.Card, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "card name is required")
	}

	card := &models.Card{
		UserID:      userID,
		Name:        input.Name,
		CreditLimit: input.CreditLimit,
		ClosingDay:  input.ClosingDay,
		DueDay:      input.DueDay,
		Color:       input.Color,
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Create(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return card, nil
}

// GetUserCards lists the user's cards ordered by name.
func (s *cardService) GetUserCards(userID string) ([]models.Card, error) {
	cards := make([]models.Card, 0)
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return cards, nil
}

// GetCardByID retrieves a card by ID for a specific user
func (s *cardService) GetCardByID(userID, cardID string) (*models.Card, error) {
	return findCard(s.db, userID, cardID)
}

// UpdateCard applies the non-nil fields and re-validates the card.
func (s *cardService) UpdateCard(userID, cardID string, fields CardUpdateFields) (*models.Card, error) {
	card, err := s.GetCardByID(userID, cardID)
	if err != nil {
		return nil, err
	}

	if fields.Name != nil && *fields.Name != "" {
		card.Name = *fields.Name
	}
	if fields.CreditLimit != nil {
		card.CreditLimit = *fields.CreditLimit
	}
	if fields.ClosingDay != nil {
		card.ClosingDay = *fields.ClosingDay
	}
	if fields.DueDay != nil {
		card.DueDay = *fields.DueDay
	}
	if fields.Color != nil {
		card.Color = *fields.Color
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Save(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return card, nil
}

// DeleteCard removes the card together with its purchases, subscriptions
// and invoice payment records in one transaction.
func (s *cardService) DeleteCard(userID, cardID string) error {
	card, err := s.GetCardByID(userID, cardID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_id = ? AND user_id = ?", card.ID, userID).Delete(&models.Purchase{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("card_id = ? AND user_id = ?", card.ID, userID).Delete(&models.Subscription{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("user_id = ? AND kind = ? AND reference_id LIKE ?",
			userID, string(billing.PaymentKindInvoice), card.ID+":%").
			Delete(&models.PaymentRecord{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(card).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetCardFinancials derives the card's committed amount, available limit and
// current invoice as of today.
func (s *cardService) GetCardFinancials(userID, cardID string) (*billing.CardFinancials, error) {
	card, purchases, subs, ledger, err := s.loadCard(userID, cardID)
	if err != nil {
		return nil, err
	}

	fin, err := billing.CalculateCardFinancials(card, purchases, subs, ledger, s.clock.Today())
	if err != nil {
		if errors.Is(err, billing.ErrInvalidCreditLimit) {
			return nil, apperrors.Wrap(apperrors.ErrMisconfiguredCard, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &fin, nil
}

// GetInvoice synthesizes the card's invoice for period.
func (s *cardService) GetInvoice(userID, cardID string, period billing.Period) (*billing.Invoice, error) {
	card, purchases, subs, ledger, err := s.loadCard(userID, cardID)
	if err != nil {
		return nil, err
	}
	inv := billing.SynthesizeInvoice(card, period, purchases, subs, ledger)
	return &inv, nil
}

// GetYearInvoices synthesizes the twelve invoices of year.
func (s *cardService) GetYearInvoices(userID, cardID string, year int) ([]billing.Invoice, error) {
	if year < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be positive")
	}
	card, purchases, subs, ledger, err := s.loadCard(userID, cardID)
	if err != nil {
		return nil, err
	}
	return billing.InvoicesForYear(card, year, purchases, subs, ledger), nil
}

func (s *cardService) loadCard(userID, cardID string) (billing.Card, []billing.Purchase, []billing.Subscription, *billing.Ledger, error) {
	card, err := s.GetCardByID(userID, cardID)
	if err != nil {
		return billing.Card{}, nil, nil, nil, err
	}
	purchases, subs, err := loadCardActivity(s.db, userID, &card.ID)
	if err != nil {
		return billing.Card{}, nil, nil, nil, err
	}
	ledger, err := loadLedger(s.db, userID)
	if err != nil {
		return billing.Card{}, nil, nil, nil, err
	}
	return card.Billing(), purchases, subs, ledger, nil
}

func findCard(db *gorm.DB, userID, cardID string) (*models.Card, error) {
	var card models.Card
	if err := db.Where("id = ? AND user_id = ?", cardID, userID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &card, nil
}

// loadCardActivity reads the user's purchases and subscriptions, optionally
// restricted to one card, as billing records.
func loadCardActivity(db *gorm.DB, userID string, cardID *string) ([]billing.Purchase, []billing.Subscription, error) {
	pq := db.Where("user_id = ?", userID)
	sq := db.Where("user_id = ?", userID)
	if cardID != nil {
		pq = pq.Where("card_id = ?", *cardID)
		sq = sq.Where("card_id = ?", *cardID)
	}

	var purchases []models.Purchase
	if err := pq.Find(&purchases).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var subs []models.Subscription
	if err := sq.Find(&subs).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return models.BillingPurchases(purchases), models.BillingSubscriptions(subs), nil
}
