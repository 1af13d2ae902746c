package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "finpilot/internal/errors"
	"finpilot/internal/models"
)

// subscriptionService handles recurring card charges.
type subscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new SubscriptionServicer.
func NewSubscriptionService(db *gorm.DB) SubscriptionServicer {
	return &subscriptionService{db: db}
}

// CreateSubscription records an active subscription on one of the user's cards.
func (s *subscriptionService) CreateSubscription(userID string, input SubscriptionInput) (*models.Subscription, error) {
	if input.Description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}

	sub := &models.Subscription{
		UserID:        userID,
		CardID:        input.CardID,
		Description:   input.Description,
		MonthlyAmount: input.MonthlyAmount,
		StartDate:     models.TimeOf(input.StartDate),
		Category:      input.Category,
		IsActive:      true,
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if _, err := findCard(s.db, userID, input.CardID); err != nil {
		return nil, err
	}

	if err := s.db.Create(sub).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sub, nil
}

// GetUserSubscriptions lists subscriptions, optionally for one card.
func (s *subscriptionService) GetUserSubscriptions(userID string, cardID *string) ([]models.Subscription, error) {
	q := s.db.Where("user_id = ?", userID)
	if cardID != nil {
		q = q.Where("card_id = ?", *cardID)
	}
	subs := make([]models.Subscription, 0)
	if err := q.Order("description ASC").Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subs, nil
}

// GetSubscriptionByID retrieves a subscription by ID for a specific user
func (s *subscriptionService) GetSubscriptionByID(userID, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.Where("id = ? AND user_id = ?", subscriptionID, userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sub, nil
}

// SetSubscriptionActive pauses or resumes a subscription.
func (s *subscriptionService) SetSubscriptionActive(userID, subscriptionID string, active bool) (*models.Subscription, error) {
	sub, err := s.GetSubscriptionByID(userID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(sub).Update("is_active", active).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sub.IsActive = active
	return sub, nil
}

// DeleteSubscription removes a subscription.
func (s *subscriptionService) DeleteSubscription(userID, subscriptionID string) error {
	sub, err := s.GetSubscriptionByID(userID, subscriptionID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(sub).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
