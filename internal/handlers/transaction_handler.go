package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "finpilot/internal/errors"
	"finpilot/internal/models"
	"finpilot/internal/pagination"
	"finpilot/internal/services"
)

// TransactionHandler handles income and expense requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for a transaction.
// Recurring transactions without a pattern repeat monthly.
type CreateTransactionRequest struct {
	Kind             string  `json:"kind" binding:"required,transaction_kind"`
	Amount           float64 `json:"amount" binding:"required,gt=0"`
	Description      string  `json:"description" binding:"max=255"`
	Date             string  `json:"date" binding:"required"`
	IsRecurring      bool    `json:"is_recurring"`
	RecurringPattern *string `json:"recurring_pattern" binding:"omitempty,recurring_pattern"`
	Category         string  `json:"category" binding:"max=50"`
}

// CreateTransaction records an income or expense
// @Summary     Create a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	date, err := parseDate(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	input := services.TransactionInput{
		Kind:        models.TransactionKind(req.Kind),
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
		IsRecurring: req.IsRecurring,
		Category:    req.Category,
	}
	if req.RecurringPattern != nil {
		pattern := models.RecurringPattern(*req.RecurringPattern)
		input.RecurringPattern = &pattern
	}

	tx, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, models.ResourceTransaction, tx.ID, c.ClientIP(),
		map[string]interface{}{"kind": req.Kind, "amount": req.Amount, "recurring": req.IsRecurring})

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// GetUserTransactions lists transactions newest first
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       kind      query string false "income or expense"
// @Param       recurring query bool   false "Only recurring (true) or one-off (false)"
// @Param       from      query string false "From date (YYYY-MM-DD)"
// @Param       to        query string false "To date (YYYY-MM-DD)"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Items per page"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
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

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from"); v != "" {
		d, err := parseDate(v, "from")
		if err != nil {
			return filter, err
		}
		t := models.TimeOf(d)
		filter.FromDate = &t
	}

	if v := c.Query("to"); v != "" {
		d, err := parseDate(v, "to")
		if err != nil {
			return filter, err
		}
		t := models.TimeOf(d)
		filter.ToDate = &t
	}

	if v := c.Query("kind"); v != "" {
		kind := models.TransactionKind(v)
		if kind != models.TransactionKindIncome && kind != models.TransactionKindExpense {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be income or expense")
		}
		filter.Kind = &kind
	}

	if v := c.Query("recurring"); v != "" {
		recurring, err := strconv.ParseBool(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "recurring must be true or false")
		}
		filter.Recurring = &recurring
	}

	return filter, nil
}

// GetTransactionByID returns one transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
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

	tx, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction removes a transaction and its payment marks
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]string "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
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

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, models.ResourceTransaction, id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
