package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finpilot/internal/middleware"
	"finpilot/internal/services"
)

// JobsHandler exposes scheduled maintenance tasks to an external scheduler.
type JobsHandler struct {
	userService    services.UserServicer
	paymentService services.PaymentServicer
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(userService services.UserServicer, paymentService services.PaymentServicer) *JobsHandler {
	return &JobsHandler{userService: userService, paymentService: paymentService}
}

// InvoiceExpensesResult summarizes a generation run.
type InvoiceExpensesResult struct {
	Users   int `json:"users"`
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// GenerateInvoiceExpenses books the current invoice of every active user
// @Summary     Generate invoice expenses for all users
// @Description A failure for one user is logged and does not stop the run.
// @Tags        jobs
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} InvoiceExpensesResult "Run summary"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /jobs/invoice-expenses [post]
func (h *JobsHandler) GenerateInvoiceExpenses(c *gin.Context) {
	userIDs, err := h.userService.ListActiveUserIDs()
	if err != nil {
		respondWithError(c, err)
		return
	}

	log := middleware.RequestLogger(c)
	result := InvoiceExpensesResult{Users: len(userIDs)}
	for _, userID := range userIDs {
		created, err := h.paymentService.GenerateInvoiceTransactions(userID)
		if err != nil {
			result.Failed++
			log.Errorw("invoice expense generation failed", "user_id", userID, "error", err)
			continue
		}
		result.Created += len(created)
	}

	log.Infow("invoice expense generation finished",
		"users", result.Users, "created", result.Created, "failed", result.Failed)
	c.JSON(http.StatusOK, result)
}
