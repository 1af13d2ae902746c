package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// InvoiceReference formats the deterministic id of the invoice for card in
// period. The same string is the reference id of invoice-kind payment
// records, so both sides must go through this function.
func InvoiceReference(cardID string, period Period) string {
	return fmt.Sprintf("%s:%d:%d", cardID, period.Year, int(period.Month))
}

// ParseInvoiceReference splits an invoice reference back into card id and
// period. Card ids never contain a colon, so the last two fields are the period.
func ParseInvoiceReference(ref string) (string, Period, error) {
	parts := strings.Split(ref, ":")
	if len(parts) != 3 || parts[0] == "" {
		return "", Period{}, fmt.Errorf("%w: malformed invoice reference %q", ErrInvalidPaymentKey, ref)
	}
	year, yerr := strconv.Atoi(parts[1])
	month, merr := strconv.Atoi(parts[2])
	if yerr != nil || merr != nil {
		return "", Period{}, fmt.Errorf("%w: malformed invoice reference %q", ErrInvalidPaymentKey, ref)
	}
	period, err := NewPeriod(year, time.Month(month))
	if err != nil {
		return "", Period{}, fmt.Errorf("%w: %v", ErrInvalidPaymentKey, err)
	}
	return parts[0], period, nil
}

// LineKind distinguishes invoice lines.
type LineKind string

const (
	LineKindInstallment  LineKind = "installment"
	LineKindSubscription LineKind = "subscription"
)

// InvoiceLine is one charge on an invoice.
type InvoiceLine struct {
	Kind              LineKind `json:"kind"`
	SourceID          string   `json:"source_id"`
	Description       string   `json:"description"`
	Category          string   `json:"category,omitempty"`
	Amount            float64  `json:"amount"`
	InstallmentNumber int      `json:"installment_number,omitempty"`
	InstallmentCount  int      `json:"installment_count,omitempty"`
}

// Invoice is the derived monthly statement of one card. It is never stored;
// it is recomputed from the current purchases and subscriptions.
type Invoice struct {
	ID                  string        `json:"id"`
	CardID              string        `json:"card_id"`
	Month               int           `json:"month"`
	Year                int           `json:"year"`
	PurchasesAmount     float64       `json:"purchases_amount"`
	SubscriptionsAmount float64       `json:"subscriptions_amount"`
	Amount              float64       `json:"amount"`
	DueDate             civil.Date    `json:"due_date"`
	Paid                bool          `json:"paid"`
	Lines               []InvoiceLine `json:"lines"`
}

// Period returns the invoice's billing month.
func (inv Invoice) Period() Period {
	return Period{Year: inv.Year, Month: time.Month(inv.Month)}
}

// SynthesizeInvoice builds the invoice of card for period. Purchases and
// subscriptions belonging to other cards are ignored. paid may be nil, in
// which case the invoice is reported unpaid.
func SynthesizeInvoice(card Card, period Period, purchases []Purchase, subscriptions []Subscription, paid PaidChecker) Invoice {
	lines := make([]InvoiceLine, 0)
	purchasesTotal := decimal.Zero
	for _, p := range purchases {
		if p.CardID != card.ID || p.InstallmentCount < 1 || !InstallmentActive(p, period) {
			continue
		}
		share := installmentShare(p)
		purchasesTotal = purchasesTotal.Add(share)
		lines = append(lines, InvoiceLine{
			Kind:              LineKindInstallment,
			SourceID:          p.ID,
			Description:       p.Description,
			Category:          p.Category,
			Amount:            share.InexactFloat64(),
			InstallmentNumber: MonthsBetween(p.PurchaseDate, period) + 1,
			InstallmentCount:  p.InstallmentCount,
		})
	}

	subscriptionsTotal := decimal.Zero
	for _, s := range subscriptions {
		if s.CardID != card.ID || !s.Active || MonthsBetween(s.StartDate, period) < 0 {
			continue
		}
		amount := decimal.NewFromFloat(s.MonthlyAmount)
		subscriptionsTotal = subscriptionsTotal.Add(amount)
		lines = append(lines, InvoiceLine{
			Kind:        LineKindSubscription,
			SourceID:    s.ID,
			Description: s.Description,
			Category:    s.Category,
			Amount:      s.MonthlyAmount,
		})
	}

	id := InvoiceReference(card.ID, period)
	inv := Invoice{
		ID:                  id,
		CardID:              card.ID,
		Month:               int(period.Month),
		Year:                period.Year,
		PurchasesAmount:     purchasesTotal.InexactFloat64(),
		SubscriptionsAmount: subscriptionsTotal.InexactFloat64(),
		Amount:              purchasesTotal.Add(subscriptionsTotal).InexactFloat64(),
		DueDate:             DueDateFor(card, period),
		Lines:               lines,
	}
	if paid != nil {
		inv.Paid = paid.IsPaid(InvoiceKey(card.ID, period))
	}
	return inv
}

// InvoicesForYear synthesizes the twelve invoices of card for year.
func InvoicesForYear(card Card, year int, purchases []Purchase, subscriptions []Subscription, paid PaidChecker) []Invoice {
	out := make([]Invoice, 0, 12)
	for p := (Period{Year: year, Month: 1}); p.Year == year; p = p.Next() {
		out = append(out, SynthesizeInvoice(card, p, purchases, subscriptions, paid))
	}
	return out
}

// installmentShare is amount / installmentCount.
func installmentShare(p Purchase) decimal.Decimal {
	return decimal.NewFromFloat(p.Amount).Div(decimal.NewFromInt(int64(p.InstallmentCount)))
}
