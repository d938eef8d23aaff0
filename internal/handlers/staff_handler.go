package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/services"
)

// StaffHandler serves the staff roster
type StaffHandler struct {
	staff  *services.StaffService
	logger logrus.FieldLogger
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staff *services.StaffService, logger logrus.FieldLogger) *StaffHandler {
	return &StaffHandler{staff: staff, logger: logger}
}

// StaffRequest is the body of staff create and rename
type StaffRequest struct {
	Name string `json:"name" binding:"required"`
}

// List handles GET /api/staff
func (h *StaffHandler) List(c *gin.Context) {
	staff, err := h.staff.List(c.Request.Context(), c.Query("includeInactive") == "true")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// Create handles POST /api/staff
func (h *StaffHandler) Create(c *gin.Context) {
	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Staff name is required")
		return
	}

	staff, err := h.staff.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": staff.ID, "staff": staff})
}

// Update handles PUT /api/staff/:id
func (h *StaffHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Staff name is required")
		return
	}

	if err := h.staff.Rename(c.Request.Context(), id, req.Name); err != nil {
		respondError(c, h.logger, err)
		return
	}
	ok(c)
}

// Delete handles DELETE /api/staff/:id. Staff with history are deactivated instead.
func (h *StaffHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	removal, err := h.staff.Remove(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"deleted":     removal.Deleted,
		"deactivated": removal.Deactivated,
		"message":     removal.Message,
	})
}
