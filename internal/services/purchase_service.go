package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "finpilot/internal/errors"
	"finpilot/internal/models"
	"finpilot/internal/pagination"
)

// purchaseService handles card purchase business logic.
type purchaseService struct {
	db *gorm.DB
}

// NewPurchaseService creates a new PurchaseServicer.
func NewPurchaseService(db *gorm.DB) PurchaseServicer {
	return &purchaseService{db: db}
}

// CreatePurchase records a purchase on one of the user's cards.
func (s *purchaseService) CreatePurchase(userID string, input PurchaseInput) (*models.Purchase, error) {
	if input.Description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if input.InstallmentCount == 0 {
		input.InstallmentCount = 1
	}

	purchase := &models.Purchase{
		UserID:           userID,
		CardID:           input.CardID,
		Description:      input.Description,
		Amount:           input.Amount,
		InstallmentCount: input.InstallmentCount,
		PurchaseDate:     models.TimeOf(input.PurchaseDate),
		Category:         input.Category,
	}
	if err := purchase.Validate(); err != nil {
		return nil, err
	}
	if _, err := findCard(s.db, userID, input.CardID); err != nil {
		return nil, err
	}

	if err := s.db.Create(purchase).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return purchase, nil
}

// GetUserPurchases lists purchases newest first, optionally for one card.
func (s *purchaseService) GetUserPurchases(userID string, cardID *string, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error) {
	page.Defaults()

	base := s.db.Model(&models.Purchase{}).Where("user_id = ?", userID)
	if cardID != nil {
		base = base.Where("card_id = ?", *cardID)
	}
	base = base.Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var purchases []models.Purchase
	if err := base.Order("purchase_date DESC").Scopes(pagination.Paginate(page)).Find(&purchases).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(purchases, page, totalItems)
	return &result, nil
}

// GetPurchaseByID retrieves a purchase by ID for a specific user
func (s *purchaseService) GetPurchaseByID(userID, purchaseID string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := s.db.Where("id = ? AND user_id = ?", purchaseID, userID).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPurchaseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &purchase, nil
}

// SetPurchasePaid flags a purchase as settled (or not). A paid purchase no
// longer holds any of the card's limit.
func (s *purchaseService) SetPurchasePaid(userID, purchaseID string, paid bool) (*models.Purchase, error) {
	purchase, err := s.GetPurchaseByID(userID, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(purchase).Update("is_paid", paid).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	purchase.IsPaid = paid
	return purchase, nil
}

// DeletePurchase removes a purchase.
func (s *purchaseService) DeletePurchase(userID, purchaseID string) error {
	purchase, err := s.GetPurchaseByID(userID, purchaseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(purchase).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
