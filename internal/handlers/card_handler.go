package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"finpilot/internal/billing"
	apperrors "finpilot/internal/errors"
	"finpilot/internal/models"
	"finpilot/internal/services"
)

// CardHandler handles credit card requests, including derived financials
// and invoices.
type CardHandler struct {
	cardService  services.CardServicer
	auditService services.AuditServicer
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService services.CardServicer, auditService services.AuditServicer) *CardHandler {
	return &CardHandler{cardService: cardService, auditService: auditService}
}

// CreateCardRequest represents the request payload for creating a card.
type CreateCardRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	CreditLimit float64 `json:"credit_limit" binding:"required,gt=0"`
	ClosingDay  int     `json:"closing_day" binding:"required,billing_day"`
	DueDay      int     `json:"due_day" binding:"required,billing_day"`
	Color       string  `json:"color" binding:"omitempty,hex_color"`
}

// UpdateCardRequest represents the request payload for updating a card.
// Omitted fields are left unchanged.
type UpdateCardRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=100"`
	CreditLimit *float64 `json:"credit_limit" binding:"omitempty,gt=0"`
	ClosingDay  *int     `json:"closing_day" binding:"omitempty,billing_day"`
	DueDay      *int     `json:"due_day" binding:"omitempty,billing_day"`
	Color       *string  `json:"color" binding:"omitempty,hex_color"`
}

// InvoiceYearQuery selects the year of the invoice history.
type InvoiceYearQuery struct {
	Year int `form:"year" binding:"required,min=1,max=9999"`
}

// CreateCard handles the creation of a new card
// @Summary     Create a card
// @Description Create a credit card with its limit and billing days
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCardRequest true "Card details"
// @Success     201 {object} models.Card "Card created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [post]
func (h *CardHandler) CreateCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	card, err := h.cardService.CreateCard(userID, services.CardInput{
		Name:        req.Name,
		CreditLimit: req.CreditLimit,
		ClosingDay:  req.ClosingDay,
		DueDay:      req.DueDay,
		Color:       req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, models.ResourceCard, card.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "credit_limit": req.CreditLimit})

	c.JSON(http.StatusCreated, gin.H{"card": card})
}

// GetUserCards lists the user's cards
// @Summary     List cards
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Card "Cards"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [get]
func (h *CardHandler) GetUserCards(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cards, err := h.cardService.GetUserCards(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

// GetCardByID returns one card
// @Summary     Get a card
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Card ID"
// @Success     200 {object} models.Card "Card"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id} [get]
func (h *CardHandler) GetCardByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	card, err := h.cardService.GetCardByID(userID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": card})
}

// UpdateCard edits a card
// @Summary     Update a card
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Card ID"
// @Param       request body UpdateCardRequest true "Fields to change"
// @Success     200 {object} models.Card "Card updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id} [put]
func (h *CardHandler) UpdateCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	card, err := h.cardService.UpdateCard(userID, cardID, services.CardUpdateFields{
		Name:        req.Name,
		CreditLimit: req.CreditLimit,
		ClosingDay:  req.ClosingDay,
		DueDay:      req.DueDay,
		Color:       req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, models.ResourceCard, card.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"card": card})
}

// DeleteCard removes a card with its purchases and subscriptions
// @Summary     Delete a card
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Card ID"
// @Success     200 {object} map[string]string "Card deleted"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cardService.DeleteCard(userID, cardID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, models.ResourceCard, cardID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}

// GetCardFinancials returns committed amount, available limit and current invoice
// @Summary     Card financials
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Card ID"
// @Success     200 {object} billing.CardFinancials "Financials"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     422 {object} ErrorResponse "Card misconfigured"
// @Router      /cards/{id}/financials [get]
func (h *CardHandler) GetCardFinancials(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	fin, err := h.cardService.GetCardFinancials(userID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"financials": fin})
}

// GetYearInvoices returns the twelve invoices of a year
// @Summary     Invoice history
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true "Card ID"
// @Param       year query int    true "Year"
// @Success     200 {array} billing.Invoice "Invoices"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id}/invoices [get]
func (h *CardHandler) GetYearInvoices(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q InvoiceYearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	invoices, err := h.cardService.GetYearInvoices(userID, cardID, q.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// GetInvoice returns the itemised invoice of one month
// @Summary     Monthly invoice
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id    path string true "Card ID"
// @Param       year  path int    true "Year"
// @Param       month path int    true "Month (1-12)"
// @Success     200 {object} billing.Invoice "Invoice"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id}/invoices/{year}/{month} [get]
func (h *CardHandler) GetInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, yerr := strconv.Atoi(c.Param("year"))
	month, merr := strconv.Atoi(c.Param("month"))
	if yerr != nil || merr != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year or month"))
		return
	}
	period, err := billing.NewPeriod(year, time.Month(month))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.cardService.GetInvoice(userID, cardID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}
