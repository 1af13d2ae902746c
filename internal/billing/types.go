package billing

import (
	"errors"

	"cloud.google.com/go/civil"
)

// ErrInvalidCreditLimit is returned when a card's limit is not positive.
var ErrInvalidCreditLimit = errors.New("billing: credit limit must be greater than zero")

// Card is the billing view of a credit card.
type Card struct {
	ID          string
	Name        string
	CreditLimit float64
	ClosingDay  int
	DueDay      int
}

// Purchase is a one-time debt amortized over InstallmentCount consecutive
// months starting with the month of PurchaseDate.
type Purchase struct {
	ID               string
	CardID           string
	Description      string
	Amount           float64
	InstallmentCount int
	PurchaseDate     civil.Date
	Category         string
	Paid             bool
}

// Subscription is a recurring charge billed at full value every month while
// active.
type Subscription struct {
	ID            string
	CardID        string
	Description   string
	MonthlyAmount float64
	StartDate     civil.Date
	Category      string
	Active        bool
}
