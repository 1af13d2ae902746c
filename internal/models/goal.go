package models

import (
	"time"

	"finpilot/internal/forecast"
)

// GoalPriority ranks goals against each other.
type GoalPriority string

const (
	GoalPriorityHigh   GoalPriority = "high"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityLow    GoalPriority = "low"
)

// Goal categories. GoalCategoryEmergency drives the reserve recommendation.
const (
	GoalCategoryEmergency  = forecast.GoalCategoryEmergency
	GoalCategoryInvestment = "investment"
	GoalCategoryPurchase   = "purchase"
	GoalCategoryDebt       = "debt"
	GoalCategoryOther      = "other"
)

// FinancialGoal is a savings target.
type FinancialGoal struct {
	Base
	UserID        string       `gorm:"size:36;not null;index" json:"user_id"`
	Title         string       `gorm:"not null" json:"title"`
	TargetAmount  float64      `gorm:"not null" json:"target_amount"`
	CurrentAmount float64      `gorm:"not null" json:"current_amount"`
	Deadline      *time.Time   `gorm:"type:date" json:"deadline,omitempty"`
	Priority      GoalPriority `gorm:"not null;default:'medium'" json:"priority"`
	Category      string       `gorm:"not null;default:'other'" json:"category"`
}

// Progress returns how much of the target is saved, as a percentage capped at 100.
func (g *FinancialGoal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// Forecast returns the goal as the summary engine sees it.
func (g *FinancialGoal) Forecast() forecast.Goal {
	return forecast.Goal{
		ID:            g.ID,
		Category:      g.Category,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
	}
}

// ForecastGoals converts a slice of goals.
func ForecastGoals(gs []FinancialGoal) []forecast.Goal {
	out := make([]forecast.Goal, len(gs))
	for i := range gs {
		out[i] = gs[i].Forecast()
	}
	return out
}
