package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finpilot/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC of the given day, the form dates are stored in.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCard creates a card with a 1000 limit closing on the 5th and due on the 10th.
func CreateTestCard(t *testing.T, db *gorm.DB, userID string) *models.Card {
	t.Helper()
	return CreateTestCardWithLimit(t, db, userID, 1000)
}

// CreateTestCardWithLimit creates a card with the given credit limit.
func CreateTestCardWithLimit(t *testing.T, db *gorm.DB, userID string, limit float64) *models.Card {
	t.Helper()

	card := &models.Card{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Card %d", nextID()),
		CreditLimit: limit,
		ClosingDay:  5,
		DueDay:      10,
		Color:       "#336699",
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}
	return card
}

// CreateTestPurchase creates an unpaid purchase on card.
func CreateTestPurchase(t *testing.T, db *gorm.DB, card *models.Card, amount float64, installments int, date time.Time) *models.Purchase {
	t.Helper()

	purchase := &models.Purchase{
		UserID:           card.UserID,
		CardID:           card.ID,
		Description:      fmt.Sprintf("Test Purchase %d", nextID()),
		Amount:           amount,
		InstallmentCount: installments,
		PurchaseDate:     date,
		Category:         "shopping",
	}
	if err := db.Create(purchase).Error; err != nil {
		t.Fatalf("failed to create test purchase: %v", err)
	}
	return purchase
}

// CreateTestSubscription creates an active subscription on card.
func CreateTestSubscription(t *testing.T, db *gorm.DB, card *models.Card, monthly float64, start time.Time) *models.Subscription {
	t.Helper()

	sub := &models.Subscription{
		UserID:        card.UserID,
		CardID:        card.ID,
		Description:   fmt.Sprintf("Test Subscription %d", nextID()),
		MonthlyAmount: monthly,
		StartDate:     start,
		Category:      "streaming",
		IsActive:      true,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}
	return sub
}

// CreateTestTransaction creates a transaction of the given kind and amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, kind models.TransactionKind, amount float64, date time.Time, recurring bool) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Date:        date,
		IsRecurring: recurring,
	}
	if recurring {
		pattern := models.RecurringMonthly
		tx.RecurringPattern = &pattern
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGoal creates a goal in the given category.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID, category string, target, current float64) *models.FinancialGoal {
	t.Helper()

	goal := &models.FinancialGoal{
		UserID:        userID,
		Title:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: current,
		Priority:      models.GoalPriorityMedium,
		Category:      category,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestPlannedPurchase creates a planned purchase.
func CreateTestPlannedPurchase(t *testing.T, db *gorm.DB, userID string, price float64, maxInstallments int) *models.PlannedPurchase {
	t.Helper()

	pp := &models.PlannedPurchase{
		UserID:          userID,
		Item:            fmt.Sprintf("Test Item %d", nextID()),
		EstimatedPrice:  price,
		Urgency:         models.UrgencyMedium,
		CanInstall:      maxInstallments > 1,
		MaxInstallments: maxInstallments,
	}
	if err := db.Create(pp).Error; err != nil {
		t.Fatalf("failed to create test planned purchase: %v", err)
	}
	return pp
}
