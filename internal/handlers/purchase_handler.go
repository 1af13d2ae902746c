package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finpilot/internal/pagination"
	"finpilot/internal/models"
	"finpilot/internal/services"
)

// PurchaseHandler handles card purchase requests.
type PurchaseHandler struct {
	purchaseService services.PurchaseServicer
	auditService    services.AuditServicer
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseService services.PurchaseServicer, auditService services.AuditServicer) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService, auditService: auditService}
}

// CreatePurchaseRequest represents the request payload for a card purchase.
// InstallmentCount defaults to a single payment.
type CreatePurchaseRequest struct {
	CardID           string  `json:"card_id" binding:"required,uuid"`
	Description      string  `json:"description" binding:"required,min=1,max=255"`
	Amount           float64 `json:"amount" binding:"required,gt=0"`
	InstallmentCount int     `json:"installment_count" binding:"omitempty,min=1,max=120"`
	PurchaseDate     string  `json:"purchase_date" binding:"required"`
	Category         string  `json:"category" binding:"max=50"`
}

// SetPaidRequest toggles a purchase's settled flag.
type SetPaidRequest struct {
	IsPaid *bool `json:"is_paid" binding:"required"`
}

// CreatePurchase records a purchase on a card
// @Summary     Create a purchase
// @Tags        purchases
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePurchaseRequest true "Purchase details"
// @Success     201 {object} models.Purchase "Purchase created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /purchases [post]
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	date, err := parseDate(req.PurchaseDate, "purchase_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(userID, services.PurchaseInput{
		CardID:           req.CardID,
		Description:      req.Description,
		Amount:           req.Amount,
		InstallmentCount: req.InstallmentCount,
		PurchaseDate:     date,
		Category:         req.Category,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, models.ResourcePurchase, purchase.ID, c.ClientIP(),
		map[string]interface{}{"card_id": req.CardID, "amount": req.Amount, "installments": purchase.InstallmentCount})

	c.JSON(http.StatusCreated, gin.H{"purchase": purchase})
}

// GetUserPurchases lists purchases newest first
// @Summary     List purchases
// @Tags        purchases
// @Produce     json
// @Security    BearerAuth
// @Param       card_id   query string false "Only this card"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Items per page"
// @Success     200 {object} pagination.PageResponse[models.Purchase] "Purchases"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /purchases [get]
func (h *PurchaseHandler) GetUserPurchases(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	cardID, err := optionalUUIDQuery(c, "card_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.purchaseService.GetUserPurchases(userID, cardID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPurchaseByID returns one purchase
// @Summary     Get a purchase
// @Tags        purchases
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Purchase ID"
// @Success     200 {object} models.Purchase "Purchase"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Router      /purchases/{id} [get]
func (h *PurchaseHandler) GetPurchaseByID(c *gin.Context) {
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

	purchase, err := h.purchaseService.GetPurchaseByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// SetPurchasePaid marks a purchase settled, releasing its limit
// @Summary     Settle a purchase
// @Tags        purchases
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Purchase ID"
// @Param       request body SetPaidRequest true "Paid flag"
// @Success     200 {object} models.Purchase "Purchase updated"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Router      /purchases/{id}/paid [put]
func (h *PurchaseHandler) SetPurchasePaid(c *gin.Context) {
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

	var req SetPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	purchase, err := h.purchaseService.SetPurchasePaid(userID, id, *req.IsPaid)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, models.ResourcePurchase, id, c.ClientIP(),
		map[string]interface{}{"is_paid": *req.IsPaid})
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// DeletePurchase removes a purchase
// @Summary     Delete a purchase
// @Tags        purchases
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Purchase ID"
// @Success     200 {object} map[string]string "Purchase deleted"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Router      /purchases/{id} [delete]
func (h *PurchaseHandler) DeletePurchase(c *gin.Context) {
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

	if err := h.purchaseService.DeletePurchase(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, models.ResourcePurchase, id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Purchase deleted successfully"})
}
