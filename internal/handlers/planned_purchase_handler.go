package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finpilot/internal/models"
	"finpilot/internal/services"
)

// PlannedPurchaseHandler handles the purchase wish list.
type PlannedPurchaseHandler struct {
	plannedPurchaseService services.PlannedPurchaseServicer
	insightService         services.InsightServicer
	auditService           services.AuditServicer
}

// NewPlannedPurchaseHandler creates a new PlannedPurchaseHandler.
func NewPlannedPurchaseHandler(
	plannedPurchaseService services.PlannedPurchaseServicer,
	insightService services.InsightServicer,
	auditService services.AuditServicer,
) *PlannedPurchaseHandler {
	return &PlannedPurchaseHandler{
		plannedPurchaseService: plannedPurchaseService,
		insightService:         insightService,
		auditService:           auditService,
	}
}

// CreatePlannedPurchaseRequest represents the request payload for a wish-list item.
type CreatePlannedPurchaseRequest struct {
	Item            string  `json:"item" binding:"required,min=1,max=100"`
	EstimatedPrice  float64 `json:"estimated_price" binding:"required,gt=0"`
	Urgency         string  `json:"urgency" binding:"omitempty,urgency"`
	CanInstall      bool    `json:"can_install"`
	MaxInstallments int     `json:"max_installments" binding:"omitempty,min=1,max=120"`
	Category        string  `json:"category" binding:"max=50"`
	Notes           string  `json:"notes" binding:"max=500"`
}

// CreatePlannedPurchase adds an item to the wish list
// @Summary     Create a planned purchase
// @Tags        planned-purchases
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePlannedPurchaseRequest true "Planned purchase details"
// @Success     201 {object} models.PlannedPurchase "Planned purchase created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /planned-purchases [post]
func (h *PlannedPurchaseHandler) CreatePlannedPurchase(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePlannedPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	pp, err := h.plannedPurchaseService.CreatePlannedPurchase(userID, services.PlannedPurchaseInput{
		Item:            req.Item,
		EstimatedPrice:  req.EstimatedPrice,
		Urgency:         models.Urgency(req.Urgency),
		CanInstall:      req.CanInstall,
		MaxInstallments: req.MaxInstallments,
		Category:        req.Category,
		Notes:           req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, models.ResourcePlannedPurchase, pp.ID, c.ClientIP(),
		map[string]interface{}{"item": req.Item, "estimated_price": req.EstimatedPrice})

	c.JSON(http.StatusCreated, gin.H{"planned_purchase": pp})
}

// GetUserPlannedPurchases lists the wish list, most urgent first
// @Summary     List planned purchases
// @Tags        planned-purchases
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.PlannedPurchase "Planned purchases"
// @Router      /planned-purchases [get]
func (h *PlannedPurchaseHandler) GetUserPlannedPurchases(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	items, err := h.plannedPurchaseService.GetUserPlannedPurchases(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"planned_purchases": items})
}

// GetPlannedPurchaseViability runs the advisor on a wish-list item
// @Summary     Assess a planned purchase
// @Tags        planned-purchases
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Planned purchase ID"
// @Success     200 {object} services.PlannedPurchaseAssessment "Assessment"
// @Failure     404 {object} ErrorResponse "Planned purchase not found"
// @Router      /planned-purchases/{id}/viability [get]
func (h *PlannedPurchaseHandler) GetPlannedPurchaseViability(c *gin.Context) {
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

	assessment, err := h.insightService.AssessPlannedPurchase(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// DeletePlannedPurchase removes a wish-list item
// @Summary     Delete a planned purchase
// @Tags        planned-purchases
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Planned purchase ID"
// @Success     200 {object} map[string]string "Planned purchase deleted"
// @Failure     404 {object} ErrorResponse "Planned purchase not found"
// @Router      /planned-purchases/{id} [delete]
func (h *PlannedPurchaseHandler) DeletePlannedPurchase(c *gin.Context) {
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

	if err := h.plannedPurchaseService.DeletePlannedPurchase(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, models.ResourcePlannedPurchase, id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Planned purchase deleted successfully"})
}
