package models

import (
	"time"

	"finpilot/internal/billing"
	"finpilot/internal/uuid"

	"gorm.io/gorm"
)

// PaymentRecord marks an invoice or a recurring transaction as paid for one
// month. Rows are hard deleted on unmark so the natural key stays unique.
type PaymentRecord struct {
	ID          string    `gorm:"size:36;primaryKey" json:"id"`
	UserID      string    `gorm:"size:36;not null;uniqueIndex:idx_payment_key" json:"user_id"`
	Kind        string    `gorm:"not null;uniqueIndex:idx_payment_key" json:"kind"`
	ReferenceID string    `gorm:"not null;uniqueIndex:idx_payment_key" json:"reference_id"`
	Month       int       `gorm:"not null;uniqueIndex:idx_payment_key" json:"month"`
	Year        int       `gorm:"not null;uniqueIndex:idx_payment_key" json:"year"`
	PaidAmount  float64   `gorm:"not null" json:"paid_amount"`
	PaidDate    time.Time `gorm:"type:date;not null" json:"paid_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *PaymentRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}

// Key returns the ledger key of the record.
func (p *PaymentRecord) Key() billing.PaymentKey {
	return billing.PaymentKey{
		Kind:        billing.PaymentKind(p.Kind),
		ReferenceID: p.ReferenceID,
		Month:       time.Month(p.Month),
		Year:        p.Year,
	}
}

// Billing returns the record as a ledger entry.
func (p *PaymentRecord) Billing() billing.PaymentRecord {
	return billing.PaymentRecord{
		Key:        p.Key(),
		PaidAmount: p.PaidAmount,
		PaidDate:   DateOf(p.PaidDate),
	}
}
