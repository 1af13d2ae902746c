package billing

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// CardFinancials is the derived state of a card as of a given day.
type CardFinancials struct {
	CardID               string  `json:"card_id"`
	CreditLimit          float64 `json:"credit_limit"`
	CommittedAmount      float64 `json:"committed_amount"`
	AvailableLimit       float64 `json:"available_limit"`
	CurrentInvoiceAmount float64 `json:"current_invoice_amount"`
	Utilization          float64 `json:"utilization"`
	CurrentInvoice       Invoice `json:"current_invoice"`
}

// RemainingPrincipal is the part of p not yet amortized in period:
// amount * (n - elapsed) / n with elapsed clamped to [0, n]. Paid purchases
// have no remaining principal.
func RemainingPrincipal(p Purchase, period Period) float64 {
	return remainingPrincipal(p, period).InexactFloat64()
}

func remainingPrincipal(p Purchase, period Period) decimal.Decimal {
	if p.Paid || p.InstallmentCount < 1 {
		return decimal.Zero
	}
	n := p.InstallmentCount
	elapsed := MonthsBetween(p.PurchaseDate, period)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > n {
		elapsed = n
	}
	return decimal.NewFromFloat(p.Amount).
		Mul(decimal.NewFromInt(int64(n - elapsed))).
		Div(decimal.NewFromInt(int64(n)))
}

// CommittedAmount is the limit a card has in use in period: the remaining
// principal of its unpaid purchases plus the full monthly value of every
// active subscription.
func CommittedAmount(card Card, period Period, purchases []Purchase, subscriptions []Subscription) float64 {
	return committedAmount(card, period, purchases, subscriptions).InexactFloat64()
}

func committedAmount(card Card, period Period, purchases []Purchase, subscriptions []Subscription) decimal.Decimal {
	total := decimal.Zero
	for _, p := range purchases {
		if p.CardID != card.ID {
			continue
		}
		total = total.Add(remainingPrincipal(p, period))
	}
	for _, s := range subscriptions {
		if s.CardID != card.ID || !s.Active {
			continue
		}
		total = total.Add(decimal.NewFromFloat(s.MonthlyAmount))
	}
	return total
}

// CalculateCardFinancials derives committed amount, available limit and the
// current invoice of card as of today. Records of other cards are skipped.
// A card whose limit is not positive is a configuration error.
func CalculateCardFinancials(card Card, purchases []Purchase, subscriptions []Subscription, paid PaidChecker, today civil.Date) (CardFinancials, error) {
	if card.CreditLimit <= 0 {
		return CardFinancials{}, ErrInvalidCreditLimit
	}

	period := PeriodOf(today)
	limit := decimal.NewFromFloat(card.CreditLimit)
	committed := committedAmount(card, period, purchases, subscriptions)

	available := limit.Sub(committed)
	if available.IsNegative() {
		available = decimal.Zero
	}

	invoice := SynthesizeInvoice(card, period, purchases, subscriptions, paid)

	return CardFinancials{
		CardID:               card.ID,
		CreditLimit:          card.CreditLimit,
		CommittedAmount:      committed.InexactFloat64(),
		AvailableLimit:       available.InexactFloat64(),
		CurrentInvoiceAmount: invoice.Amount,
		Utilization:          committed.Div(limit).InexactFloat64(),
		CurrentInvoice:       invoice,
	}, nil
}
