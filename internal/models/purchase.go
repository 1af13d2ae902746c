package models

import (
	"time"

	"finpilot/internal/billing"
	apperrors "finpilot/internal/errors"
)

// Purchase is a card purchase split into InstallmentCount monthly installments.
type Purchase struct {
	Base
	UserID           string    `gorm:"size:36;not null;index" json:"user_id"`
	CardID           string    `gorm:"size:36;not null;index" json:"card_id"`
	Description      string    `gorm:"not null" json:"description"`
	Amount           float64   `gorm:"not null" json:"amount"`
	InstallmentCount int       `gorm:"not null;default:1" json:"installment_count"`
	PurchaseDate     time.Time `gorm:"type:date;not null" json:"purchase_date"`
	Category         string    `json:"category"`
	IsPaid           bool      `gorm:"not null" json:"is_paid"`
}

// Validate rejects configuration errors before the purchase is stored.
func (p *Purchase) Validate() error {
	if p.Amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	if p.InstallmentCount < 1 {
		return apperrors.ErrInvalidInstallmentCount
	}
	return nil
}

// InstallmentAmount is the value of each monthly installment.
func (p *Purchase) InstallmentAmount() float64 {
	if p.InstallmentCount < 1 {
		return p.Amount
	}
	return p.Amount / float64(p.InstallmentCount)
}

// Billing returns the purchase as the billing engine sees it.
func (p *Purchase) Billing() billing.Purchase {
	return billing.Purchase{
		ID:               p.ID,
		CardID:           p.CardID,
		Description:      p.Description,
		Amount:           p.Amount,
		InstallmentCount: p.InstallmentCount,
		PurchaseDate:     DateOf(p.PurchaseDate),
		Category:         p.Category,
		Paid:             p.IsPaid,
	}
}

// BillingPurchases converts a slice of purchases.
func BillingPurchases(ps []Purchase) []billing.Purchase {
	out := make([]billing.Purchase, len(ps))
	for i := range ps {
		out[i] = ps[i].Billing()
	}
	return out
}
