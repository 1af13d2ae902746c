package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finpilot/internal/billing"
	"finpilot/internal/models"
	"finpilot/internal/services"
)

// PaymentHandler handles payment acknowledgements and the monthly overview.
type PaymentHandler struct {
	paymentService services.PaymentServicer
	auditService   services.AuditServicer
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService services.PaymentServicer, auditService services.AuditServicer) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, auditService: auditService}
}

// PaymentKeyRequest identifies one payable item for one month. For invoices
// the reference is "cardId:year:month".
type PaymentKeyRequest struct {
	Kind        string `json:"kind" form:"kind" binding:"required,payment_kind"`
	ReferenceID string `json:"reference_id" form:"reference_id" binding:"required,max=100"`
	Month       int    `json:"month" form:"month" binding:"required,min=1,max=12"`
	Year        int    `json:"year" form:"year" binding:"required,min=1,max=9999"`
}

func (r PaymentKeyRequest) key() billing.PaymentKey {
	return billing.PaymentKey{
		Kind:        billing.PaymentKind(r.Kind),
		ReferenceID: r.ReferenceID,
		Month:       time.Month(r.Month),
		Year:        r.Year,
	}
}

// MarkPaidRequest acknowledges a payment. PaidDate defaults to today.
type MarkPaidRequest struct {
	PaymentKeyRequest
	Amount   float64 `json:"amount" binding:"gte=0"`
	PaidDate *string `json:"paid_date"`
}

// MarkPaid records that an invoice or recurring transaction was paid
// @Summary     Mark as paid
// @Description Marking the same item and month again replaces the stored amount and date.
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body MarkPaidRequest true "Payment details"
// @Success     200 {object} models.PaymentRecord "Payment recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Referenced card or transaction not found"
// @Router      /payments [post]
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	paidDate, err := parseOptionalDate(req.PaidDate, "paid_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.paymentService.MarkPaid(userID, req.key(), req.Amount, paidDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionMarkPaid, models.ResourcePayment, record.ID, c.ClientIP(),
		map[string]interface{}{
			"kind":         req.Kind,
			"reference_id": req.ReferenceID,
			"month":        req.Month,
			"year":         req.Year,
			"amount":       req.Amount,
		})

	c.JSON(http.StatusOK, gin.H{"payment": record})
}

// Unmark removes a payment acknowledgement
// @Summary     Unmark as paid
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Param       kind         query string true "invoice or transaction"
// @Param       reference_id query string true "Reference ID"
// @Param       month        query int    true "Month (1-12)"
// @Param       year         query int    true "Year"
// @Success     200 {object} map[string]bool "Whether a record was removed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /payments [delete]
func (h *PaymentHandler) Unmark(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PaymentKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	removed, err := h.paymentService.Unmark(userID, req.key())
	if err != nil {
		respondWithError(c, err)
		return
	}

	if removed {
		h.auditService.Log(userID, services.AuditActionUnmark, models.ResourcePayment, req.ReferenceID, c.ClientIP(),
			map[string]interface{}{"kind": req.Kind, "month": req.Month, "year": req.Year})
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// GetStatus reports whether an item is paid for a month
// @Summary     Payment status
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Param       kind         query string true "invoice or transaction"
// @Param       reference_id query string true "Reference ID"
// @Param       month        query int    true "Month (1-12)"
// @Param       year         query int    true "Year"
// @Success     200 {object} services.PaymentStatus "Payment status"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /payments/status [get]
func (h *PaymentHandler) GetStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PaymentKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	status, err := h.paymentService.GetStatus(userID, req.key())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetOverview lists what is due this month
// @Summary     Payments overview
// @Description Upcoming card invoices, last month's unpaid invoices and recurring bills, with counts and totals.
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PaymentsOverview "Overview"
// @Router      /payments/overview [get]
func (h *PaymentHandler) GetOverview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	overview, err := h.paymentService.GetOverview(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GenerateInvoiceTransactions books current invoices as expenses
// @Summary     Generate invoice expenses
// @Description Creates one expense per card for the current invoice. Invoices already booked are skipped.
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Created transactions"
// @Router      /payments/invoices/generate [post]
func (h *PaymentHandler) GenerateInvoiceTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	created, err := h.paymentService.GenerateInvoiceTransactions(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(created) > 0 {
		h.auditService.Log(userID, services.AuditActionGenerate, models.ResourceTransaction, "", c.ClientIP(),
			map[string]interface{}{"created": len(created)})
	}
	c.JSON(http.StatusOK, gin.H{"transactions": created, "created": len(created)})
}
