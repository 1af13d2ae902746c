package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finpilot/internal/billing"
	apperrors "finpilot/internal/errors"
	"finpilot/internal/services"
)

// CategoryHandler serves spending grouped by category.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// BreakdownQuery selects the month. Year and month go together; leaving both
// out means the current month.
type BreakdownQuery struct {
	Year  *int `form:"year" binding:"omitempty,min=1,max=9999"`
	Month *int `form:"month" binding:"omitempty,min=1,max=12"`
}

// GetSpendingBreakdown returns a month's spending by category
// @Summary     Spending by category
// @Description Expense transactions and card invoice lines of a month, grouped by category, with each category's share of the total.
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int false "Year"
// @Param       month query int false "Month (1-12)"
// @Success     200 {object} services.SpendingBreakdown "Breakdown"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /insights/categories [get]
func (h *CategoryHandler) GetSpendingBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q BreakdownQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	if (q.Year == nil) != (q.Month == nil) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "year and month must be given together"))
		return
	}

	var period *billing.Period
	if q.Year != nil {
		p, err := billing.NewPeriod(*q.Year, time.Month(*q.Month))
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year or month"))
			return
		}
		period = &p
	}

	breakdown, err := h.categoryService.GetSpendingBreakdown(userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
