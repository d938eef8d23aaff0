package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/staffrevenue/revenue-manager/internal/services"
)

// IncomeHandler serves the income report and the rent setting it depends on
type IncomeHandler struct {
	income   *services.IncomeService
	settings *services.SettingsService
	logger   logrus.FieldLogger
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(income *services.IncomeService, settings *services.SettingsService, logger logrus.FieldLogger) *IncomeHandler {
	return &IncomeHandler{income: income, settings: settings, logger: logger}
}

// RentRequest is the body of POST /api/settings/rent
type RentRequest struct {
	Amount *int64 `json:"amount"`
	Period string `json:"period"`
}

// IncomeReport is the summary with its totals row
type IncomeReport struct {
	Days   []models.DaySummary `json:"days"`
	Totals models.DaySummary   `json:"totals"`
}

// Summary handles GET /api/income/summary?startDate=&endDate=[&withTotals=true].
// Without withTotals the body is the bare list of days.
func (h *IncomeHandler) Summary(c *gin.Context) {
	days, err := h.income.Summary(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if c.Query("withTotals") != "true" {
		c.JSON(http.StatusOK, days)
		return
	}
	c.JSON(http.StatusOK, IncomeReport{Days: days, Totals: services.Totals(days)})
}

// GetRent handles GET /api/settings/rent
func (h *IncomeHandler) GetRent(c *gin.Context) {
	rent, err := h.settings.GetRent(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rent)
}

// UpdateRent handles POST /api/settings/rent
func (h *IncomeHandler) UpdateRent(c *gin.Context) {
	var req RentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == nil {
		badRequest(c, "Rent amount is required")
		return
	}

	if err := h.settings.UpdateRent(c.Request.Context(), *req.Amount, req.Period); err != nil {
		respondError(c, h.logger, err)
		return
	}
	ok(c)
}
