package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/models"
	"github.com/staffrevenue/revenue-manager/internal/services"
)

// GiftCardHandler serves gift card issue, redemption and maintenance
type GiftCardHandler struct {
	giftCards *services.GiftCardService
	logger    logrus.FieldLogger
}

// NewGiftCardHandler creates a new GiftCardHandler
func NewGiftCardHandler(giftCards *services.GiftCardService, logger logrus.FieldLogger) *GiftCardHandler {
	return &GiftCardHandler{giftCards: giftCards, logger: logger}
}

// GiftCardCreatedResponse answers POST /api/gift-cards
type GiftCardCreatedResponse struct {
	Success bool `json:"success"`
	models.GiftCardCreated
}

// GiftCardUsageResponse answers POST /api/gift-cards/:id/use
type GiftCardUsageResponse struct {
	Success bool `json:"success"`
	models.GiftCardUsage
}

// List handles GET /api/gift-cards?status=&search=
func (h *GiftCardHandler) List(c *gin.Context) {
	cards, err := h.giftCards.List(c.Request.Context(), models.GiftCardFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// Create handles POST /api/gift-cards
func (h *GiftCardHandler) Create(c *gin.Context) {
	var req models.CreateGiftCardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	created, err := h.giftCards.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, GiftCardCreatedResponse{Success: true, GiftCardCreated: *created})
}

// Get handles GET /api/gift-cards/:id
func (h *GiftCardHandler) Get(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	card, err := h.giftCards.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Update handles PUT /api/gift-cards/:id
func (h *GiftCardHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	var req models.UpdateGiftCardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if err := h.giftCards.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	ok(c)
}

// Use handles POST /api/gift-cards/:id/use
func (h *GiftCardHandler) Use(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	var req models.UseGiftCardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	usage, err := h.giftCards.Use(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, GiftCardUsageResponse{Success: true, GiftCardUsage: *usage})
}

// Search handles GET /api/gift-cards/search/:query
func (h *GiftCardHandler) Search(c *gin.Context) {
	matches, err := h.giftCards.Search(c.Request.Context(), c.Param("query"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// Delete handles DELETE /api/gift-cards/:id
func (h *GiftCardHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	if err := h.giftCards.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Gift card deleted successfully"})
}
