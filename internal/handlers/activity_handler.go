package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finpilot/internal/pagination"
	"finpilot/internal/services"
)

// ActivityHandler serves the user's own audit trail.
type ActivityHandler struct {
	auditService services.AuditServicer
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(auditService services.AuditServicer) *ActivityHandler {
	return &ActivityHandler{auditService: auditService}
}

// ActivityQuery filters the activity listing.
type ActivityQuery struct {
	pagination.PageRequest
	ResourceType string `form:"resource_type" binding:"max=50"`
	Action       string `form:"action" binding:"max=50"`
}

// GetActivity lists recorded operations, newest first
// @Summary     Activity log
// @Tags        activity
// @Produce     json
// @Security    BearerAuth
// @Param       resource_type query string false "card, purchase, subscription, transaction, goal, planned_purchase, payment or user"
// @Param       action        query string false "CREATE, UPDATE, DELETE, MARK_PAID, UNMARK_PAID, GENERATE, LOGIN or REGISTER"
// @Param       page          query int    false "Page number"
// @Param       page_size     query int    false "Items per page (max 100)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /activity [get]
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ActivityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	var filter services.AuditFilter
	if q.ResourceType != "" {
		filter.ResourceType = &q.ResourceType
	}
	if q.Action != "" {
		filter.Action = &q.Action
	}

	result, err := h.auditService.GetUserActivity(userID, q.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
