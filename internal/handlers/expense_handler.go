package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/staffrevenue/revenue-manager/internal/services"
	"github.com/staffrevenue/revenue-manager/pkg/jwt"
)

// ExpenseHandler serves the PIN-protected daily expenses section
type ExpenseHandler struct {
	expenses *services.ExpenseService
	settings *services.SettingsService
	unlock   *jwt.Service
	limiter  *services.RateLimitService
	logger   logrus.FieldLogger
}

// NewExpenseHandler creates a new ExpenseHandler. unlock and limiter may be nil.
func NewExpenseHandler(expenses *services.ExpenseService, settings *services.SettingsService, unlock *jwt.Service, limiter *services.RateLimitService, logger logrus.FieldLogger) *ExpenseHandler {
	return &ExpenseHandler{
		expenses: expenses,
		settings: settings,
		unlock:   unlock,
		limiter:  limiter,
		logger:   logger,
	}
}

// CheckPINRequest is the body of POST /api/expenses/check-pin
type CheckPINRequest struct {
	PIN string `json:"pin"`
}

// ChangePINRequest is the body of POST /api/expenses/change-pin
type ChangePINRequest struct {
	OldPIN string `json:"oldPin"`
	NewPIN string `json:"newPin"`
}

// List handles GET /api/expenses?date= or ?start_date=&end_date=
func (h *ExpenseHandler) List(c *gin.Context) {
	expenses, err := h.expenses.List(c.Request.Context(), models.ExpenseFilter{
		Date:      c.Query("date"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// Create handles POST /api/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req models.ExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	expense, err := h.expenses.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": expense.ID, "expense": expense})
}

// Update handles PUT /api/expenses/:id
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	var req models.ExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if err := h.expenses.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	ok(c)
}

// Delete handles DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	ok(c)
}

// Summary handles GET /api/expenses/summary?start_date=&end_date=
func (h *ExpenseHandler) Summary(c *gin.Context) {
	rows, err := h.expenses.Summary(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// CheckPIN handles POST /api/expenses/check-pin
func (h *ExpenseHandler) CheckPIN(c *gin.Context) {
	var req CheckPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	valid, done := checkUnlock(c, h.limiter, h.logger, jwt.ExpensesScope, func(ctx context.Context) (bool, error) {
		return h.settings.CheckExpensesPIN(ctx, req.PIN)
	})
	if done {
		return
	}

	respondUnlock(c, h.unlock, h.logger, jwt.ExpensesScope, valid)
}

// ChangePIN handles POST /api/expenses/change-pin
func (h *ExpenseHandler) ChangePIN(c *gin.Context) {
	var req ChangePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	changeSecret(c, h.limiter, h.logger, jwt.ExpensesScope, func(ctx context.Context) error {
		return h.settings.ChangeExpensesPIN(ctx, req.OldPIN, req.NewPIN)
	})
}
