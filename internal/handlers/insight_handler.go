package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finpilot/internal/forecast"
	"finpilot/internal/services"
)

// InsightHandler serves the monthly summary and the purchase advisor.
type InsightHandler struct {
	insightService services.InsightServicer
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService services.InsightServicer) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// ViabilityRequest asks whether a purchase is affordable.
type ViabilityRequest struct {
	Price            float64 `json:"price" binding:"required,gt=0"`
	InstallmentCount *int    `json:"installment_count" binding:"omitempty,min=1,max=120"`
}

// GetSummary returns the month-to-date summary
// @Summary     Financial summary
// @Description Income, expenses, balance, projected balance and savings rate for the current month, with a health light and advice.
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} forecast.Report "Report"
// @Router      /insights/summary [get]
func (h *InsightHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.insightService.GetReport(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AssessViability runs the purchase advisor
// @Summary     Purchase viability
// @Tags        insights
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ViabilityRequest true "Purchase"
// @Success     200 {object} forecast.Viability "Verdict"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /insights/viability [post]
func (h *InsightHandler) AssessViability(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ViabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	v, err := h.insightService.AssessPurchase(userID, forecast.PurchaseRequest{
		Price:            req.Price,
		InstallmentCount: req.InstallmentCount,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
