package services

import (
	"time"

	"cloud.google.com/go/civil"

	"finpilot/internal/billing"
	"finpilot/internal/forecast"
	"finpilot/internal/models"
	"finpilot/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	ListActiveUserIDs() ([]string, error)
}

// CardInput holds the fields of a new card.
type CardInput struct {
	Name        string
	CreditLimit float64
	ClosingDay  int
	DueDay      int
	Color       string
}

// CardUpdateFields holds optional fields for updating a card.
// Nil pointer fields are left unchanged.
type CardUpdateFields struct {
	Name        *string
	CreditLimit *float64
	ClosingDay  *int
	DueDay      *int
	Color       *string
}

// CardServicer defines the contract for card-related business logic.
type CardServicer interface {
	CreateCard(userID string, input CardInput) (*models.Card, error)
	GetUserCards(userID string) ([]models.Card, error)
	GetCardByID(userID, cardID string) (*models.Card, error)
	UpdateCard(userID, cardID string, fields CardUpdateFields) (*models.Card, error)
	DeleteCard(userID, cardID string) error
	GetCardFinancials(userID, cardID string) (*billing.CardFinancials, error)
	GetInvoice(userID, cardID string, period billing.Period) (*billing.Invoice, error)
	GetYearInvoices(userID, cardID string, year int) ([]billing.Invoice, error)
}

// PurchaseInput holds the fields of a new card purchase.
type PurchaseInput struct {
	CardID           string
	Description      string
	Amount           float64
	InstallmentCount int
	PurchaseDate     civil.Date
	Category         string
}

// PurchaseServicer defines the contract for card purchase business logic.
type PurchaseServicer interface {
	CreatePurchase(userID string, input PurchaseInput) (*models.Purchase, error)
	GetUserPurchases(userID string, cardID *string, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error)
	GetPurchaseByID(userID, purchaseID string) (*models.Purchase, error)
	SetPurchasePaid(userID, purchaseID string, paid bool) (*models.Purchase, error)
	DeletePurchase(userID, purchaseID string) error
}

// SubscriptionInput holds the fields of a new subscription.
type SubscriptionInput struct {
	CardID        string
	Description   string
	MonthlyAmount float64
	StartDate     civil.Date
	Category      string
}

// SubscriptionServicer defines the contract for subscription business logic.
type SubscriptionServicer interface {
	CreateSubscription(userID string, input SubscriptionInput) (*models.Subscription, error)
	GetUserSubscriptions(userID string, cardID *string) ([]models.Subscription, error)
	GetSubscriptionByID(userID, subscriptionID string) (*models.Subscription, error)
	SetSubscriptionActive(userID, subscriptionID string, active bool) (*models.Subscription, error)
	DeleteSubscription(userID, subscriptionID string) error
}

// TransactionInput holds the fields of a new transaction.
type TransactionInput struct {
	Kind             models.TransactionKind
	Amount           float64
	Description      string
	Date             civil.Date
	IsRecurring      bool
	RecurringPattern *models.RecurringPattern
	Category         string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Kind      *models.TransactionKind
	Recurring *bool
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// GoalInput holds the fields of a new financial goal.
type GoalInput struct {
	Title         string
	TargetAmount  float64
	CurrentAmount float64
	Deadline      *civil.Date
	Priority      models.GoalPriority
	Category      string
}

// GoalServicer defines the contract for financial goal business logic.
type GoalServicer interface {
	CreateGoal(userID string, input GoalInput) (*models.FinancialGoal, error)
	GetUserGoals(userID string) ([]models.FinancialGoal, error)
	GetGoalByID(userID, goalID string) (*models.FinancialGoal, error)
	UpdateGoalProgress(userID, goalID string, currentAmount float64) (*models.FinancialGoal, error)
	DeleteGoal(userID, goalID string) error
}

// PlannedPurchaseInput holds the fields of a new planned purchase.
type PlannedPurchaseInput struct {
	Item            string
	EstimatedPrice  float64
	Urgency         models.Urgency
	CanInstall      bool
	MaxInstallments int
	Category        string
	Notes           string
}

// PlannedPurchaseServicer defines the contract for the purchase wish list.
type PlannedPurchaseServicer interface {
	CreatePlannedPurchase(userID string, input PlannedPurchaseInput) (*models.PlannedPurchase, error)
	GetUserPlannedPurchases(userID string) ([]models.PlannedPurchase, error)
	GetPlannedPurchaseByID(userID, plannedPurchaseID string) (*models.PlannedPurchase, error)
	DeletePlannedPurchase(userID, plannedPurchaseID string) error
}

// PaymentStatus reports whether a key has been acknowledged and, if so, how.
type PaymentStatus struct {
	Paid   bool                  `json:"paid"`
	Record *models.PaymentRecord `json:"record,omitempty"`
}

// RecurringBill is a recurring expense due in the current month.
type RecurringBill struct {
	TransactionID string         `json:"transaction_id"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Amount        float64        `json:"amount"`
	DueDate       civil.Date     `json:"due_date"`
	Status        billing.Status `json:"status"`
}

// PaymentsOverview gathers everything the user has to pay this month.
type PaymentsOverview struct {
	Today        civil.Date                `json:"today"`
	Invoices     []billing.UpcomingInvoice `json:"invoices"`
	Overdue      []billing.UpcomingInvoice `json:"overdue_invoices"`
	Bills        []RecurringBill           `json:"bills"`
	PendingCount int                       `json:"pending_count"`
	DueSoonCount int                       `json:"due_soon_count"`
	OverdueCount int                       `json:"overdue_count"`
	PaidCount    int                       `json:"paid_count"`
	TotalPending float64                   `json:"total_pending"`
	TotalOverdue float64                   `json:"total_overdue"`
}

// PaymentServicer defines the contract for the persisted payment ledger.
type PaymentServicer interface {
	MarkPaid(userID string, key billing.PaymentKey, amount float64, paidDate *civil.Date) (*models.PaymentRecord, error)
	Unmark(userID string, key billing.PaymentKey) (bool, error)
	GetStatus(userID string, key billing.PaymentKey) (*PaymentStatus, error)
	LoadLedger(userID string) (*billing.Ledger, error)
	GetOverview(userID string) (*PaymentsOverview, error)
	GenerateInvoiceTransactions(userID string) ([]models.Transaction, error)
}

// PlannedPurchaseAssessment is the viability of one wish-list item.
type PlannedPurchaseAssessment struct {
	PlannedPurchase models.PlannedPurchase `json:"planned_purchase"`
	Viability       forecast.Viability     `json:"viability"`
}

// InsightServicer defines the contract for the financial summary and advisor.
type InsightServicer interface {
	GetReport(userID string) (*forecast.Report, error)
	AssessPurchase(userID string, req forecast.PurchaseRequest) (*forecast.Viability, error)
	AssessPlannedPurchase(userID, plannedPurchaseID string) (*PlannedPurchaseAssessment, error)
}

// CategorySpending is one category's share of a month's spending.
type CategorySpending struct {
	Category     string  `json:"category"`
	Transactions float64 `json:"transactions"`
	Cards        float64 `json:"cards"`
	Total        float64 `json:"total"`
	Share        float64 `json:"share"`
}

// SpendingBreakdown is a month's spending grouped by category.
type SpendingBreakdown struct {
	Month      string             `json:"month"`
	Total      float64            `json:"total"`
	Categories []CategorySpending `json:"categories"`
}

// CategoryServicer defines the contract for spending by category.
type CategoryServicer interface {
	GetSpendingBreakdown(userID string, period *billing.Period) (*SpendingBreakdown, error)
}

// AuditFilter narrows an activity listing. Nil fields match everything.
type AuditFilter struct {
	ResourceType *string
	Action       *string
}

// AuditServicer records mutating operations and lists them back to their owner.
type AuditServicer interface {
	Log(userID string, action, resourceType string, resourceID string, ipAddress string, changes map[string]interface{})
	GetUserActivity(userID string, page pagination.PageRequest, filter AuditFilter) (*pagination.PageResponse[models.AuditLog], error)
}
