package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finpilot/internal/models"
	"finpilot/internal/services"
)

// SubscriptionHandler handles recurring card charge requests.
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionServicer
	auditService        services.AuditServicer
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService services.SubscriptionServicer, auditService services.AuditServicer) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, auditService: auditService}
}

// CreateSubscriptionRequest represents the request payload for a subscription.
type CreateSubscriptionRequest struct {
	CardID        string  `json:"card_id" binding:"required,uuid"`
	Description   string  `json:"description" binding:"required,min=1,max=255"`
	MonthlyAmount float64 `json:"monthly_amount" binding:"required,gt=0"`
	StartDate     string  `json:"start_date" binding:"required"`
	Category      string  `json:"category" binding:"max=50"`
}

// SetActiveRequest pauses or resumes a subscription.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// CreateSubscription records a subscription on a card
// @Summary     Create a subscription
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSubscriptionRequest true "Subscription details"
// @Success     201 {object} models.Subscription "Subscription created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	sub, err := h.subscriptionService.CreateSubscription(userID, services.SubscriptionInput{
		CardID:        req.CardID,
		Description:   req.Description,
		MonthlyAmount: req.MonthlyAmount,
		StartDate:     start,
		Category:      req.Category,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, models.ResourceSubscription, sub.ID, c.ClientIP(),
		map[string]interface{}{"card_id": req.CardID, "monthly_amount": req.MonthlyAmount})

	c.JSON(http.StatusCreated, gin.H{"subscription": sub})
}

// GetUserSubscriptions lists subscriptions
// @Summary     List subscriptions
// @Tags        subscriptions
// @Produce     json
// @Security    BearerAuth
// @Param       card_id query string false "Only this card"
// @Success     200 {array} models.Subscription "Subscriptions"
// @Router      /subscriptions [get]
func (h *SubscriptionHandler) GetUserSubscriptions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	cardID, err := optionalUUIDQuery(c, "card_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	subs, err := h.subscriptionService.GetUserSubscriptions(userID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// GetSubscriptionByID returns one subscription
// @Summary     Get a subscription
// @Tags        subscriptions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subscription ID"
// @Success     200 {object} models.Subscription "Subscription"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Router      /subscriptions/{id} [get]
func (h *SubscriptionHandler) GetSubscriptionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	sub, err := h.subscriptionService.GetSubscriptionByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// SetSubscriptionActive pauses or resumes a subscription
// @Summary     Pause or resume a subscription
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Subscription ID"
// @Param       request body SetActiveRequest true "Active flag"
// @Success     200 {object} models.Subscription "Subscription updated"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Router      /subscriptions/{id}/active [put]
func (h *SubscriptionHandler) SetSubscriptionActive(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	sub, err := h.subscriptionService.SetSubscriptionActive(userID, id, *req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, models.ResourceSubscription, id, c.ClientIP(),
		map[string]interface{}{"is_active": *req.IsActive})
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// DeleteSubscription removes a subscription
// @Summary     Delete a subscription
// @Tags        subscriptions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subscription ID"
// @Success     200 {object} map[string]string "Subscription deleted"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Router      /subscriptions/{id} [delete]
func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.subscriptionService.DeleteSubscription(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, models.ResourceSubscription, id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted successfully"})
}
