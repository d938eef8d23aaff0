package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staffrevenue/revenue-manager/internal/database"
	"github.com/staffrevenue/revenue-manager/internal/utils"
)

// SystemHandler serves health and LAN discovery
type SystemHandler struct {
	store   *database.Store
	port    string
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(store *database.Store, port, version string) *SystemHandler {
	return &SystemHandler{store: store, port: port, version: version}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": h.store.State().String(),
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  h.store.State().String(),
		"version":   h.version,
		"timestamp": time.Now().Unix(),
	})
}

// NetworkInfo handles GET /api/network-info
func (h *SystemHandler) NetworkInfo(c *gin.Context) {
	info := utils.GetNetworkInfo(h.port)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"localIP": info.LocalIP,
		"port":    info.Port,
		"url":     info.URL,
	})
}
