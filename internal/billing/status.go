package billing

import "cloud.google.com/go/civil"

// Status is the payment state of an invoice on a given day.
type Status string

const (
	StatusPending Status = "pending"
	StatusDueSoon Status = "due_soon"
	StatusOverdue Status = "overdue"
	StatusPaid    Status = "paid"
)

// DefaultDueSoonDays is the window used when no other is configured.
const DefaultDueSoonDays = 7

// StatusOf classifies an invoice due on dueDate. Unpaid invoices are overdue
// once today is past dueDate and due soon within window days of it.
func StatusOf(dueDate civil.Date, paid bool, today civil.Date, window int) Status {
	switch {
	case paid:
		return StatusPaid
	case dueDate.Before(today):
		return StatusOverdue
	case !dueDate.After(today.AddDays(window)):
		return StatusDueSoon
	default:
		return StatusPending
	}
}

// UpcomingInvoice is the current-cycle invoice of a card with its due date
// rolled forward when the current month's due day has passed.
type UpcomingInvoice struct {
	Invoice
	CardName string `json:"card_name"`
	Status   Status `json:"status"`
}

// Upcoming synthesizes the invoice of the current month and dates it with
// NextDueDate. The paid flag and id still refer to the current month.
func Upcoming(card Card, purchases []Purchase, subscriptions []Subscription, paid PaidChecker, today civil.Date, window int) UpcomingInvoice {
	inv := SynthesizeInvoice(card, PeriodOf(today), purchases, subscriptions, paid)
	inv.DueDate = NextDueDate(card, today)
	return UpcomingInvoice{
		Invoice:  inv,
		CardName: card.Name,
		Status:   StatusOf(inv.DueDate, inv.Paid, today, window),
	}
}
