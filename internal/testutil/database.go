// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"os"
	"testing"

	"finpilot/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// allModels is the list of all GORM models to auto-migrate in tests.
var allModels = []interface{}{
	&models.User{},
	&models.Card{},
	&models.Purchase{},
	&models.Subscription{},
	&models.Transaction{},
	&models.FinancialGoal{},
	&models.PlannedPurchase{},
	&models.PaymentRecord{},
	&models.AuditLog{},
}

// SetupTestDB opens a private in-memory SQLite database with every model
// migrated. SQL logging is silenced unless FINPILOT_SQL_LOG is set.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	level := gormlogger.Silent
	if os.Getenv("FINPILOT_SQL_LOG") != "" {
		level = gormlogger.Info
	}

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", nextID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the connection; the in-memory database goes with it.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
