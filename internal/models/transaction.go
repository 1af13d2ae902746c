package models

import (
	"time"

	apperrors "finpilot/internal/errors"
	"finpilot/internal/forecast"
)

// TransactionKind represents the direction of a transaction
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// RecurringPattern describes how often a recurring transaction repeats.
type RecurringPattern string

const (
	RecurringMonthly RecurringPattern = "monthly"
	RecurringWeekly  RecurringPattern = "weekly"
	RecurringYearly  RecurringPattern = "yearly"
)

// CategoryCreditCardInvoice is the category of expenses generated from card invoices.
const CategoryCreditCardInvoice = "credit_card_invoice"

// Transaction represents an income or expense entry
type Transaction struct {
	Base
	UserID           string            `gorm:"size:36;not null;index;uniqueIndex:idx_transactions_user_invoice,priority:1,where:related_invoice_id IS NOT NULL AND deleted_at IS NULL" json:"user_id"`
	Kind             TransactionKind   `gorm:"not null" json:"kind"`
	Amount           float64           `gorm:"not null" json:"amount"`
	Description      string            `json:"description"`
	Date             time.Time         `gorm:"type:date;not null;index" json:"date"`
	IsRecurring      bool              `gorm:"not null" json:"is_recurring"`
	RecurringPattern *RecurringPattern `json:"recurring_pattern,omitempty"`
	Category         string            `json:"category"`

	// Set on expenses generated from a card invoice; holds the invoice reference.
	// At most one live expense per user and reference.
	RelatedInvoiceID *string `gorm:"index;uniqueIndex:idx_transactions_user_invoice,priority:2,where:related_invoice_id IS NOT NULL AND deleted_at IS NULL" json:"related_invoice_id,omitempty"`
}

// Validate rejects configuration errors before the transaction is stored.
func (t *Transaction) Validate() error {
	if t.Kind != TransactionKindIncome && t.Kind != TransactionKindExpense {
		return apperrors.ErrInvalidTransactionKind
	}
	if t.Amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	return nil
}

// Forecast returns the transaction as the summary engine sees it.
func (t *Transaction) Forecast() forecast.Transaction {
	return forecast.Transaction{
		ID:        t.ID,
		Kind:      forecast.TransactionKind(t.Kind),
		Amount:    t.Amount,
		Date:      DateOf(t.Date),
		Recurring: t.IsRecurring,
		Category:  t.Category,
	}
}

// ForecastTransactions converts a slice of transactions.
func ForecastTransactions(ts []Transaction) []forecast.Transaction {
	out := make([]forecast.Transaction, len(ts))
	for i := range ts {
		out[i] = ts[i].Forecast()
	}
	return out
}
