package models

import (
	"time"

	"finpilot/internal/billing"
	apperrors "finpilot/internal/errors"
)

// Subscription is a recurring monthly charge on a card.
type Subscription struct {
	Base
	UserID        string    `gorm:"size:36;not null;index" json:"user_id"`
	CardID        string    `gorm:"size:36;not null;index" json:"card_id"`
	Description   string    `gorm:"not null" json:"description"`
	MonthlyAmount float64   `gorm:"not null" json:"monthly_amount"`
	StartDate     time.Time `gorm:"type:date;not null" json:"start_date"`
	Category      string    `json:"category"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
}

// Validate rejects configuration errors before the subscription is stored.
func (s *Subscription) Validate() error {
	if s.MonthlyAmount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	return nil
}

// Billing returns the subscription as the billing engine sees it.
func (s *Subscription) Billing() billing.Subscription {
	return billing.Subscription{
		ID:            s.ID,
		CardID:        s.CardID,
		Description:   s.Description,
		MonthlyAmount: s.MonthlyAmount,
		StartDate:     DateOf(s.StartDate),
		Category:      s.Category,
		Active:        s.IsActive,
	}
}

// BillingSubscriptions converts a slice of subscriptions.
func BillingSubscriptions(ss []Subscription) []billing.Subscription {
	out := make([]billing.Subscription, len(ss))
	for i := range ss {
		out[i] = ss[i].Billing()
	}
	return out
}
