package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/services"
	"github.com/staffrevenue/revenue-manager/internal/utils"
	"github.com/staffrevenue/revenue-manager/pkg/jwt"
)

// PayrollHandler serves the password-protected payroll section and the work schedule
type PayrollHandler struct {
	payroll  *services.PayrollService
	settings *services.SettingsService
	unlock   *jwt.Service
	limiter  *services.RateLimitService
	logger   logrus.FieldLogger
}

// NewPayrollHandler creates a new PayrollHandler. unlock may be nil when
// unlock tokens are disabled, limiter when failed checks are not throttled.
func NewPayrollHandler(payroll *services.PayrollService, settings *services.SettingsService, unlock *jwt.Service, limiter *services.RateLimitService, logger logrus.FieldLogger) *PayrollHandler {
	return &PayrollHandler{
		payroll:  payroll,
		settings: settings,
		unlock:   unlock,
		limiter:  limiter,
		logger:   logger,
	}
}

// CheckPasswordRequest is the body of POST /api/payroll/check-password
type CheckPasswordRequest struct {
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of POST /api/payroll/change-password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UnlockResponse answers a password or PIN check
type UnlockResponse struct {
	Success   bool   `json:"success"`
	Valid     bool   `json:"valid"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expires_in_seconds,omitempty"`
}

// RateRequest is the body of POST /api/rates
type RateRequest struct {
	StaffID   int64  `json:"staffId"`
	WageCents *int64 `json:"wageCents"`
}

// ShiftRequest is the body of POST /api/shifts
type ShiftRequest struct {
	StaffID   int64  `json:"staffId"`
	WorkDate  string `json:"workDate"`
	WageCents *int64 `json:"wageCents"`
	Note      string `json:"note"`
}

// WorkScheduleRequest is the body of POST /api/work-schedule
type WorkScheduleRequest struct {
	StaffID   int64  `json:"staffId"`
	WorkDate  string `json:"workDate"`
	IsWorking *bool  `json:"isWorking"`
}

// CheckPassword handles POST /api/payroll/check-password
func (h *PayrollHandler) CheckPassword(c *gin.Context) {
	var req CheckPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	valid, done := checkUnlock(c, h.limiter, h.logger, jwt.PayrollScope, func(ctx context.Context) (bool, error) {
		return h.settings.CheckPayrollPassword(ctx, req.Password)
	})
	if done {
		return
	}

	respondUnlock(c, h.unlock, h.logger, jwt.PayrollScope, valid)
}

// ChangePassword handles POST /api/payroll/change-password
func (h *PayrollHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	changeSecret(c, h.limiter, h.logger, jwt.PayrollScope, func(ctx context.Context) error {
		return h.settings.ChangePayrollPassword(ctx, req.OldPassword, req.NewPassword)
	})
}

// ListRates handles GET /api/rates
func (h *PayrollHandler) ListRates(c *gin.Context) {
	rates, err := h.payroll.ListRates(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

// UpsertRate handles POST /api/rates
func (h *PayrollHandler) UpsertRate(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WageCents == nil {
		badRequest(c, "staffId and wageCents are required")
		return
	}

	if err := h.payroll.UpsertRate(c.Request.Context(), req.StaffID, *req.WageCents); err != nil {
		respondError(c, h.logger, err)
		return
	}
	ok(c)
}

// ListShifts handles GET /api/shifts?workDate=
func (h *PayrollHandler) ListShifts(c *gin.Context) {
	shifts, err := h.payroll.ListShifts(c.Request.Context(), c.Query("workDate"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, shifts)
}

// UpsertShift handles POST /api/shifts
func (h *PayrollHandler) UpsertShift(c *gin.Context) {
	var req ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WageCents == nil {
		badRequest(c, "staffId, workDate and wageCents are required")
		return
	}

	if err := h.payroll.UpsertShift(c.Request.Context(), req.StaffID, req.WorkDate, *req.WageCents, req.Note); err != nil {
		respondError(c, h.logger, err)
		return
	}
	ok(c)
}

// DeleteShift handles DELETE /api/shifts?staffId=&workDate=
func (h *PayrollHandler) DeleteShift(c *gin.Context) {
	staffID, err := strconv.ParseInt(c.Query("staffId"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid staffId")
		return
	}

	if err := h.payroll.DeleteShift(c.Request.Context(), staffID, c.Query("workDate")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	ok(c)
}

// WorkSchedule handles GET /api/work-schedule?workDate=
func (h *PayrollHandler) WorkSchedule(c *gin.Context) {
	schedule, err := h.payroll.ListSchedule(c.Request.Context(), c.Query("workDate"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// SetWorking handles POST /api/work-schedule
func (h *PayrollHandler) SetWorking(c *gin.Context) {
	var req WorkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsWorking == nil {
		badRequest(c, "staffId, workDate and isWorking are required")
		return
	}

	if err := h.payroll.SetWorking(c.Request.Context(), req.StaffID, req.WorkDate, *req.IsWorking); err != nil {
		respondError(c, h.logger, err)
		return
	}
	ok(c)
}

// checkUnlock runs a password or PIN check behind the failed-attempt limiter.
// done is true when a response has already been written.
func checkUnlock(c *gin.Context, limiter *services.RateLimitService, logger logrus.FieldLogger, scope jwt.Scope, check func(ctx context.Context) (bool, error)) (valid bool, done bool) {
	ctx := c.Request.Context()
	ip := utils.GetRealIP(c)

	var attemptID int64
	if limiter != nil {
		id, err := limiter.BeginAttempt(ctx, string(scope), ip)
		if err != nil {
			respondError(c, logger, err)
			return false, true
		}
		attemptID = id
	}

	valid, err := check(ctx)
	if err != nil {
		if limiter != nil {
			if releaseErr := limiter.ReleaseAttempt(ctx, attemptID); releaseErr != nil {
				logger.WithError(releaseErr).WithField("scope", scope).Warn("Failed to release unlock attempt")
			}
		}
		respondError(c, logger, err)
		return false, true
	}
	logger.WithFields(logrus.Fields{"scope": scope, "valid": valid, "ip": ip}).Info("Unlock attempt")

	if limiter != nil && valid {
		if err := limiter.RecordSuccess(ctx, string(scope), ip); err != nil {
			logger.WithError(err).WithField("scope", scope).Warn("Failed to clear unlock attempts")
		}
	}
	return valid, false
}

// changeSecret replaces a password or PIN behind the same limiter as the
// checks. A wrong current secret counts as a failed attempt.
func changeSecret(c *gin.Context, limiter *services.RateLimitService, logger logrus.FieldLogger, scope jwt.Scope, change func(ctx context.Context) error) {
	var mismatch error
	valid, done := checkUnlock(c, limiter, logger, scope, func(ctx context.Context) (bool, error) {
		err := change(ctx)
		if services.IsKind(err, services.KindUnauthorized) {
			mismatch = err
			return false, nil
		}
		return err == nil, err
	})
	if done {
		return
	}
	if !valid {
		respondError(c, logger, mismatch)
		return
	}
	ok(c)
}

// respondUnlock answers a password or PIN check, attaching an unlock token for
// scope when the check passed and tokens are enabled
func respondUnlock(c *gin.Context, unlock *jwt.Service, logger logrus.FieldLogger, scope jwt.Scope, valid bool) {
	resp := UnlockResponse{Success: true, Valid: valid}
	if valid && unlock != nil {
		token, err := unlock.GenerateUnlockToken(scope)
		if err != nil {
			logger.WithError(err).WithField("scope", scope).Error("Failed to issue unlock token")
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   string(services.KindInternal),
				Message: "Failed to issue unlock token",
			})
			return
		}
		resp.Token = token
		resp.ExpiresIn = int(unlock.Expiry().Seconds())
	}
	c.JSON(http.StatusOK, resp)
}
