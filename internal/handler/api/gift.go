package api

import (
	"errors"
	"net/http"

	reqdto "hostpanel/internal/handler/dto/request"
	resdto "hostpanel/internal/handler/dto/response"
	"hostpanel/internal/handler/middleware"
	"hostpanel/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type GiftHandler struct {
	giftCommands commands.GiftCodeCommands
}

func NewGiftHandler(giftCommands commands.GiftCodeCommands) *GiftHandler {
	return &GiftHandler{
		giftCommands: giftCommands,
	}
}

// @Summary Redeem a gift code
// @Description Redeem a gift code for the authenticated user, crediting coins exactly once
// @Tags gift
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RedeemGiftRequest true "Redeem request"
// @Success 200 {object} resdto.RedeemGiftResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} resdto.RedeemGiftResponse
// @Router /gift/redeem [post]
func (h *GiftHandler) RedeemGiftCode(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.RedeemGiftRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.giftCommands.RedeemGiftCode(c.Request.Context(), userID, req.NormalizedCode())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrGiftCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Gift code not found"})
		case errors.Is(err, commands.ErrInvalidGiftCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gift code format"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	status := http.StatusOK
	if result.Rejection != nil {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resdto.FromRedeemGiftResult(result))
}

// @Summary Create a gift code
// @Description Mint a new gift code (admin only)
// @Tags gift
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateGiftRequest true "Create request"
// @Success 201 {object} resdto.CreateGiftResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /gift/create [post]
func (h *GiftHandler) CreateGiftCode(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateGiftRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.giftCommands.CreateGiftCode(c.Request.Context(), actorID, req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCreateGiftResult(result))
}
