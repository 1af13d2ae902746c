package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "finpilot/internal/errors"
	"finpilot/internal/models"
)

// plannedPurchaseService handles the purchase wish list.
type plannedPurchaseService struct {
	db *gorm.DB
}

// NewPlannedPurchaseService creates a new PlannedPurchaseServicer.
func NewPlannedPurchaseService(db *gorm.DB) PlannedPurchaseServicer {
	return &plannedPurchaseService{db: db}
}

// CreatePlannedPurchase adds an item to the wish list.
func (s *plannedPurchaseService) CreatePlannedPurchase(userID string, input PlannedPurchaseInput) (*models.PlannedPurchase, error) {
	if input.Item == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "item is required")
	}
	if input.EstimatedPrice <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if input.MaxInstallments < 1 {
		input.MaxInstallments = 1
	}

	pp := &models.PlannedPurchase{
		UserID:          userID,
		Item:            input.Item,
		EstimatedPrice:  input.EstimatedPrice,
		Urgency:         input.Urgency,
		CanInstall:      input.CanInstall,
		MaxInstallments: input.MaxInstallments,
		Category:        input.Category,
		Notes:           input.Notes,
	}
	if pp.Urgency == "" {
		pp.Urgency = models.UrgencyMedium
	}

	if err := s.db.Create(pp).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pp, nil
}

// GetUserPlannedPurchases lists the wish list, most urgent first.
func (s *plannedPurchaseService) GetUserPlannedPurchases(userID string) ([]models.PlannedPurchase, error) {
	items := make([]models.PlannedPurchase, 0)
	order := "CASE urgency WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at ASC"
	if err := s.db.Where("user_id = ?", userID).Order(order).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return items, nil
}

// GetPlannedPurchaseByID retrieves a wish-list item by ID for a specific user
func (s *plannedPurchaseService) GetPlannedPurchaseByID(userID, plannedPurchaseID string) (*models.PlannedPurchase, error) {
	var pp models.PlannedPurchase
	if err := s.db.Where("id = ? AND user_id = ?", plannedPurchaseID, userID).First(&pp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlannedPurchaseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &pp, nil
}

// DeletePlannedPurchase removes an item from the wish list.
func (s *plannedPurchaseService) DeletePlannedPurchase(userID, plannedPurchaseID string) error {
	pp, err := s.GetPlannedPurchaseByID(userID, plannedPurchaseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(pp).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
