// Package forecast computes the monthly financial summary, the health light
// derived from it and purchase affordability verdicts.
package forecast

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionKind is income or expense.
type TransactionKind string

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

// GoalCategoryEmergency marks the emergency reserve goal.
const GoalCategoryEmergency = "emergency"

// Thresholds used by the light and the recommendations.
const (
	expenseWarnRatio     = 0.8
	emergencyReserveMult = 3
)

// Transaction is the summary's view of a ledger transaction.
type Transaction struct {
	ID        string
	Kind      TransactionKind
	Amount    float64
	Date      civil.Date
	Recurring bool
	Category  string
}

// Goal is the summary's view of a financial goal.
type Goal struct {
	ID            string
	Category      string
	TargetAmount  float64
	CurrentAmount float64
}

// Summary is the month-to-date financial position.
type Summary struct {
	CurrentBalance   float64 `json:"current_balance"`
	MonthlyIncome    float64 `json:"monthly_income"`
	MonthlyExpenses  float64 `json:"monthly_expenses"`
	ProjectedBalance float64 `json:"projected_balance"`
	SavingsRate      float64 `json:"savings_rate"`
}

// Light is a three-value health classification.
type Light string

const (
	Green  Light = "green"
	Yellow Light = "yellow"
	Red    Light = "red"
)

// Report bundles a summary with its light and advice.
type Report struct {
	Month           string   `json:"month"`
	Summary         Summary  `json:"summary"`
	Light           Light    `json:"light"`
	Recommendations []string `json:"recommendations"`
}

// Summarize aggregates transactions for the month containing today.
// Projected balance is the steady-state monthly result of recurring
// transactions regardless of their date.
func Summarize(transactions []Transaction, today civil.Date) Summary {
	income, expenses := decimal.Zero, decimal.Zero
	recurringIn, recurringOut := decimal.Zero, decimal.Zero

	for _, t := range transactions {
		amount := decimal.NewFromFloat(t.Amount)
		inMonth := t.Date.Year == today.Year && t.Date.Month == today.Month
		switch t.Kind {
		case Income:
			if inMonth {
				income = income.Add(amount)
			}
			if t.Recurring {
				recurringIn = recurringIn.Add(amount)
			}
		case Expense:
			if inMonth {
				expenses = expenses.Add(amount)
			}
			if t.Recurring {
				recurringOut = recurringOut.Add(amount)
			}
		}
	}

	balance := income.Sub(expenses)
	savingsRate := decimal.Zero
	if income.IsPositive() && balance.IsPositive() {
		savingsRate = balance.Div(income)
	}

	return Summary{
		CurrentBalance:   balance.InexactFloat64(),
		MonthlyIncome:    income.InexactFloat64(),
		MonthlyExpenses:  expenses.InexactFloat64(),
		ProjectedBalance: recurringIn.Sub(recurringOut).InexactFloat64(),
		SavingsRate:      savingsRate.InexactFloat64(),
	}
}

// LightFor classifies s. It keeps no state between calls.
func LightFor(s Summary) Light {
	switch {
	case s.CurrentBalance < 0 || s.MonthlyExpenses > s.MonthlyIncome:
		return Red
	case s.ProjectedBalance < 0 || s.MonthlyExpenses > expenseWarnRatio*s.MonthlyIncome:
		return Yellow
	default:
		return Green
	}
}

// Recommendations returns advice for s in a fixed order. An empty slice means
// nothing needs attention.
func Recommendations(s Summary, goals []Goal) []string {
	recs := make([]string, 0)

	if s.CurrentBalance < 0 {
		recs = append(recs, fmt.Sprintf(
			"Your balance this month is negative by %.2f. Cut non-essential spending until income covers expenses.",
			-s.CurrentBalance))
	}

	if limit := expenseWarnRatio * s.MonthlyIncome; s.MonthlyExpenses > limit {
		recs = append(recs, fmt.Sprintf(
			"Expenses are above 80%% of income by %.2f. Review recurring costs and discretionary purchases.",
			s.MonthlyExpenses-limit))
	}

	if s.ProjectedBalance < 0 {
		recs = append(recs, fmt.Sprintf(
			"Recurring expenses exceed recurring income by %.2f per month. Your projected balance will keep falling.",
			-s.ProjectedBalance))
	}

	required := emergencyReserveMult * s.MonthlyExpenses
	if reserve, ok := bestEmergencyReserve(goals); !ok || reserve < required {
		shortfall := required - reserve
		if shortfall < 0 {
			shortfall = 0
		}
		recs = append(recs, fmt.Sprintf(
			"Build an emergency reserve of at least %.2f (3 months of expenses); you are %.2f short.",
			required, shortfall))
	}

	return recs
}

// bestEmergencyReserve returns the largest current amount among emergency
// goals and whether any exists.
func bestEmergencyReserve(goals []Goal) (float64, bool) {
	var best float64
	found := false
	for _, g := range goals {
		if g.Category != GoalCategoryEmergency {
			continue
		}
		if !found || g.CurrentAmount > best {
			best = g.CurrentAmount
		}
		found = true
	}
	return best, found
}

// BuildReport summarizes transactions and derives the light and advice.
func BuildReport(transactions []Transaction, goals []Goal, today civil.Date) Report {
	s := Summarize(transactions, today)
	return Report{
		Month:           fmt.Sprintf("%04d-%02d", today.Year, int(today.Month)),
		Summary:         s,
		Light:           LightFor(s),
		Recommendations: Recommendations(s, goals),
	}
}
