package services

import (
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finpilot/internal/billing"
	apperrors "finpilot/internal/errors"
	"finpilot/internal/models"
)

// Uncategorized labels spending without a category.
const Uncategorized = "uncategorized"

// categoryService aggregates monthly spending by category.
type categoryService struct {
	db    *gorm.DB
	clock Clock
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, clock Clock) CategoryServicer {
	return &categoryService{db: db, clock: clock}
}

type categoryTotal struct {
	Category string
	Total    float64
}

// GetSpendingBreakdown groups the month's expenses by category. Card spending
// is taken from the synthesized invoice lines of every card, so expenses
// generated from invoices are left out to avoid counting them twice. A nil
// period means the current month.
func (s *categoryService) GetSpendingBreakdown(userID string, period *billing.Period) (*SpendingBreakdown, error) {
	p := billing.PeriodOf(s.clock.Today())
	if period != nil {
		p = *period
	}

	var rows []categoryTotal
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(category, '') AS category, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND kind = ? AND date BETWEEN ? AND ?",
			userID, models.TransactionKindExpense, models.TimeOf(p.Day(1)), models.TimeOf(p.Day(31))).
		Where("category IS NULL OR category <> ?", models.CategoryCreditCardInvoice).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	txTotals := make(map[string]decimal.Decimal)
	for _, r := range rows {
		key := categoryKey(r.Category)
		txTotals[key] = txTotals[key].Add(decimal.NewFromFloat(r.Total))
	}

	var cards []models.Card
	if err := s.db.Where("user_id = ?", userID).Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	purchases, subs, err := loadCardActivity(s.db, userID, nil)
	if err != nil {
		return nil, err
	}

	cardTotals := make(map[string]decimal.Decimal)
	for i := range cards {
		inv := billing.SynthesizeInvoice(cards[i].Billing(), p, purchases, subs, nil)
		for _, line := range inv.Lines {
			key := categoryKey(line.Category)
			cardTotals[key] = cardTotals[key].Add(decimal.NewFromFloat(line.Amount))
		}
	}

	return buildBreakdown(p, txTotals, cardTotals), nil
}

func categoryKey(c string) string {
	if c == "" {
		return Uncategorized
	}
	return c
}

// buildBreakdown merges both sources, largest total first. Shares are
// percentages of the month's total and are zero when nothing was spent.
func buildBreakdown(p billing.Period, txTotals, cardTotals map[string]decimal.Decimal) *SpendingBreakdown {
	keys := make(map[string]struct{})
	for k := range txTotals {
		keys[k] = struct{}{}
	}
	for k := range cardTotals {
		keys[k] = struct{}{}
	}

	grand := decimal.Zero
	totals := make(map[string]decimal.Decimal, len(keys))
	for k := range keys {
		t := txTotals[k].Add(cardTotals[k])
		totals[k] = t
		grand = grand.Add(t)
	}

	out := &SpendingBreakdown{
		Month:      p.String(),
		Total:      grand.InexactFloat64(),
		Categories: make([]CategorySpending, 0, len(keys)),
	}
	hundred := decimal.NewFromInt(100)
	for k := range keys {
		share := decimal.Zero
		if grand.IsPositive() {
			share = totals[k].Div(grand).Mul(hundred).Round(2)
		}
		out.Categories = append(out.Categories, CategorySpending{
			Category:     k,
			Transactions: txTotals[k].InexactFloat64(),
			Cards:        cardTotals[k].InexactFloat64(),
			Total:        totals[k].InexactFloat64(),
			Share:        share.InexactFloat64(),
		})
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		a, b := out.Categories[i], out.Categories[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Category < b.Category
	})
	return out
}
