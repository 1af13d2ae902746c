package models

import (
	"finpilot/internal/billing"
	apperrors "finpilot/internal/errors"
)

// Card represents a credit card owned by a user. Purchases and subscriptions
// point at it by id and are removed with it.
type Card struct {
	Base
	UserID      string  `gorm:"size:36;not null;index" json:"user_id"`
	Name        string  `gorm:"not null" json:"name"`
	CreditLimit float64 `gorm:"not null" json:"credit_limit"`
	ClosingDay  int     `gorm:"not null" json:"closing_day"`
	DueDay      int     `gorm:"not null" json:"due_day"`
	Color       string  `json:"color"`
}

// Validate rejects configuration errors before the card is stored.
func (c *Card) Validate() error {
	if c.CreditLimit <= 0 {
		return apperrors.ErrInvalidCreditLimit
	}
	if !validDay(c.ClosingDay) || !validDay(c.DueDay) {
		return apperrors.ErrInvalidBillingDay
	}
	return nil
}

// Billing returns the card as the billing engine sees it.
func (c *Card) Billing() billing.Card {
	return billing.Card{
		ID:          c.ID,
		Name:        c.Name,
		CreditLimit: c.CreditLimit,
		ClosingDay:  c.ClosingDay,
		DueDay:      c.DueDay,
	}
}

func validDay(d int) bool {
	return d >= 1 && d <= 31
}
