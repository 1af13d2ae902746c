// Package server assembles the HTTP API: services, handlers and routes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"finpilot/internal/config"
	_ "finpilot/internal/docs" // Import swagger docs
	"finpilot/internal/handlers"
	"finpilot/internal/middleware"
	"finpilot/internal/services"
	"finpilot/internal/validator"
)

// Options tune the router for tests. Zero values use the configuration.
type Options struct {
	Clock *services.Clock
}

// New builds the router for cfg on top of db.
func New(db *gorm.DB, cfg *config.Config, opts Options) *gin.Engine {
	validator.Register()

	clock := services.SystemClock(cfg.Timezone)
	if opts.Clock != nil {
		clock = *opts.Clock
	}

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	cardService := services.NewCardService(db, clock)
	purchaseService := services.NewPurchaseService(db)
	subscriptionService := services.NewSubscriptionService(db)
	transactionService := services.NewTransactionService(db)
	goalService := services.NewGoalService(db)
	plannedPurchaseService := services.NewPlannedPurchaseService(db)
	paymentService := services.NewPaymentService(db, clock, cfg.DueSoonDays)
	insightService := services.NewInsightService(db, clock)
	categoryService := services.NewCategoryService(db, clock)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	cardHandler := handlers.NewCardHandler(cardService, auditService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService, auditService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	plannedPurchaseHandler := handlers.NewPlannedPurchaseHandler(plannedPurchaseService, insightService, auditService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, auditService)
	insightHandler := handlers.NewInsightHandler(insightService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	activityHandler := handlers.NewActivityHandler(auditService)
	jobsHandler := handlers.NewJobsHandler(userService, paymentService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Scheduler routes
	jobs := v1.Group("/jobs")
	jobs.Use(middleware.JobsAuthMiddleware(cfg.JobsAPIKey))
	jobs.POST("/invoice-expenses", jobsHandler.GenerateInvoiceExpenses)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	cards := protected.Group("/cards")
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.GetUserCards)
	cards.GET("/:id", cardHandler.GetCardByID)
	cards.PUT("/:id", cardHandler.UpdateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	cards.GET("/:id/financials", cardHandler.GetCardFinancials)
	cards.GET("/:id/invoices", cardHandler.GetYearInvoices)
	cards.GET("/:id/invoices/:year/:month", cardHandler.GetInvoice)

	purchases := protected.Group("/purchases")
	purchases.POST("", purchaseHandler.CreatePurchase)
	purchases.GET("", purchaseHandler.GetUserPurchases)
	purchases.GET("/:id", purchaseHandler.GetPurchaseByID)
	purchases.PUT("/:id/paid", purchaseHandler.SetPurchasePaid)
	purchases.DELETE("/:id", purchaseHandler.DeletePurchase)

	subscriptions := protected.Group("/subscriptions")
	subscriptions.POST("", subscriptionHandler.CreateSubscription)
	subscriptions.GET("", subscriptionHandler.GetUserSubscriptions)
	subscriptions.GET("/:id", subscriptionHandler.GetSubscriptionByID)
	subscriptions.PUT("/:id/active", subscriptionHandler.SetSubscriptionActive)
	subscriptions.DELETE("/:id", subscriptionHandler.DeleteSubscription)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetUserGoals)
	goals.GET("/:id", goalHandler.GetGoalByID)
	goals.PUT("/:id/progress", goalHandler.UpdateGoalProgress)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	planned := protected.Group("/planned-purchases")
	planned.POST("", plannedPurchaseHandler.CreatePlannedPurchase)
	planned.GET("", plannedPurchaseHandler.GetUserPlannedPurchases)
	planned.GET("/:id/viability", plannedPurchaseHandler.GetPlannedPurchaseViability)
	planned.DELETE("/:id", plannedPurchaseHandler.DeletePlannedPurchase)

	payments := protected.Group("/payments")
	payments.POST("", paymentHandler.MarkPaid)
	payments.DELETE("", paymentHandler.Unmark)
	payments.GET("/status", paymentHandler.GetStatus)
	payments.GET("/overview", paymentHandler.GetOverview)
	payments.POST("/invoices/generate", paymentHandler.GenerateInvoiceTransactions)

	insights := protected.Group("/insights")
	insights.GET("/summary", insightHandler.GetSummary)
	insights.POST("/viability", insightHandler.AssessViability)
	insights.GET("/categories", categoryHandler.GetSpendingBreakdown)

	protected.GET("/activity", activityHandler.GetActivity)

	return router
}
