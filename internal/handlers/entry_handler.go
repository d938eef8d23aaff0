package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/staffrevenue/revenue-manager/internal/services"
)

// EntryHandler serves revenue entries, the transactions view and statistics
type EntryHandler struct {
	entries *services.EntryService
	logger  logrus.FieldLogger
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entries *services.EntryService, logger logrus.FieldLogger) *EntryHandler {
	return &EntryHandler{entries: entries, logger: logger}
}

// CreateEntryRequest is the body of POST /api/entries
type CreateEntryRequest struct {
	StaffID       int64   `json:"staffId"`
	AmountCents   int64   `json:"amountCents"`
	Note          string  `json:"note"`
	WorkDate      string  `json:"workDate"`
	PaymentMethod string  `json:"paymentMethod"`
	OrderNumber   *string `json:"orderNumber"`
}

// UpdateEntryRequest is the body of PUT /api/entries/:id
type UpdateEntryRequest struct {
	AmountCents   int64  `json:"amountCents"`
	Note          string `json:"note"`
	PaymentMethod string `json:"paymentMethod"`
}

// List handles GET /api/entries?startDate=&endDate=
func (h *EntryHandler) List(c *gin.Context) {
	entries, err := h.entries.List(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Create handles POST /api/entries
func (h *EntryHandler) Create(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	entry, err := h.entries.Create(c.Request.Context(), models.CreateEntryInput{
		StaffID:       req.StaffID,
		AmountCents:   req.AmountCents,
		Note:          req.Note,
		WorkDate:      req.WorkDate,
		PaymentMethod: req.PaymentMethod,
		OrderNumber:   req.OrderNumber,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": entry.ID, "entry": entry})
}

// Update handles PUT /api/entries/:id
func (h *EntryHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	err := h.entries.Update(c.Request.Context(), id, models.UpdateEntryInput{
		AmountCents:   req.AmountCents,
		Note:          req.Note,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	ok(c)
}

// Delete handles DELETE /api/entries/:id
func (h *EntryHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	if err := h.entries.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	ok(c)
}

// Transactions handles GET /api/transactions
func (h *EntryHandler) Transactions(c *gin.Context) {
	limit, valid := queryInt(c, "limit")
	if !valid {
		return
	}
	offset, valid := queryInt(c, "offset")
	if !valid {
		return
	}
	staffID, valid := queryInt(c, "staffId")
	if !valid {
		return
	}

	entries, err := h.entries.ListTransactions(c.Request.Context(), models.TransactionFilter{
		StartDate:     c.Query("startDate"),
		EndDate:       c.Query("endDate"),
		StaffID:       int64(staffID),
		PaymentMethod: c.Query("paymentMethod"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// TransactionSummary handles GET /api/transactions/summary
func (h *EntryHandler) TransactionSummary(c *gin.Context) {
	summary, err := h.entries.SummarizeByPaymentMethod(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Statistics handles GET /api/statistics?period=&startDate=&endDate=
func (h *EntryHandler) Statistics(c *gin.Context) {
	totals, err := h.entries.Statistics(c.Request.Context(), c.Query("period"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
