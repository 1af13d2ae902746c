package models

import "finpilot/internal/forecast"

// Urgency of a planned purchase.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// PlannedPurchase is an item the user is considering buying.
type PlannedPurchase struct {
	Base
	UserID          string  `gorm:"size:36;not null;index" json:"user_id"`
	Item            string  `gorm:"not null" json:"item"`
	EstimatedPrice  float64 `gorm:"not null" json:"estimated_price"`
	Urgency         Urgency `gorm:"not null;default:'medium'" json:"urgency"`
	CanInstall      bool    `gorm:"not null" json:"can_install"`
	MaxInstallments int     `gorm:"not null;default:1" json:"max_installments"`
	Category        string  `json:"category"`
	Notes           string  `json:"notes"`
}

// Request returns the viability request for this item. Installments are
// offered only when the item can be split.
func (p *PlannedPurchase) Request() forecast.PurchaseRequest {
	req := forecast.PurchaseRequest{Price: p.EstimatedPrice}
	if p.CanInstall && p.MaxInstallments > 1 {
		n := p.MaxInstallments
		req.InstallmentCount = &n
	}
	return req
}
