package api

import (
	"errors"
	"net/http"

	reqdto "hostpanel/internal/handler/dto/request"
	resdto "hostpanel/internal/handler/dto/response"
	"hostpanel/internal/handler/middleware"
	"hostpanel/internal/usecase/commands"
	"hostpanel/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchaseHandler struct {
	purchaseCommands commands.PurchaseCommands
	paymentQueries   queries.PaymentQueries
}

func NewPurchaseHandler(purchaseCommands commands.PurchaseCommands, paymentQueries queries.PaymentQueries) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseCommands: purchaseCommands,
		paymentQueries:   paymentQueries,
	}
}

// @Summary Begin a plan purchase
// @Description Evaluate the purchase, record a payment under the idempotency key and open the external order
// @Tags purchase
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key; minted when absent"
// @Param request body reqdto.BeginPurchaseRequest true "Purchase request"
// @Success 200 {object} resdto.BeginPurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} resdto.BeginPurchaseResponse
// @Router /purchase [post]
func (h *PurchaseHandler) BeginPurchase(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req reqdto.BeginPurchaseRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.purchaseCommands.BeginPurchase(c.Request.Context(), req, userID, idempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		case errors.Is(err, commands.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		case errors.Is(err, commands.ErrPaymentAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "Idempotency key belongs to another user"})
		case errors.Is(err, commands.ErrGatewayUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable, retry with the same idempotency key"})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	status := http.StatusOK
	if result.Rejection != nil {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resdto.FromBeginPurchaseResult(result))
}

// @Summary Capture a pending purchase
// @Description Capture at the gateway and apply the purchased effect exactly once
// @Tags purchase
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CapturePurchaseRequest true "Capture request"
// @Success 200 {object} resdto.CapturePurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /purchase/capture [post]
func (h *PurchaseHandler) CapturePurchase(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CapturePurchaseRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.purchaseCommands.CaptureOrder(c.Request.Context(), userID, req.IdempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		case errors.Is(err, commands.ErrPaymentAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "Payment belongs to another user"})
		case errors.Is(err, commands.ErrPaymentTerminal):
			detail := gin.H{"error": "Payment already in a terminal state"}
			if result != nil && result.FailureReason != nil {
				detail["reason"] = *result.FailureReason
			}
			c.JSON(http.StatusConflict, detail)
		case errors.Is(err, commands.ErrConflictExceededRetries):
			c.JSON(http.StatusConflict, gin.H{"error": "Concurrent updates exceeded the retry budget, retry capture"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	// Replays of an already-captured payment return 200 with the original
	// effect; a rejection discovered during re-validation is a 422.
	status := http.StatusOK
	if result.Rejection != nil && result.Status != "pending" {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resdto.FromCapturePurchaseResult(result))
}

// @Summary Get payment by idempotency key
// @Tags purchase
// @Produce json
// @Security BearerAuth
// @Param key path string true "Idempotency key"
// @Success 200 {object} queries.PaymentView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /purchase/{key} [get]
func (h *PurchaseHandler) GetPayment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	key, err := uuid.Parse(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid idempotency key format"})
		return
	}

	view, err := h.paymentQueries.GetByKey(c.Request.Context(), userID, key)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		case errors.Is(err, queries.ErrPaymentAccess):
			c.JSON(http.StatusForbidden, gin.H{"error": "Payment belongs to another user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary List own payments
// @Tags purchase
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.PaymentView
// @Router /purchase [get]
func (h *PurchaseHandler) ListPayments(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.paymentQueries.ListByUser(c.Request.Context(), userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// getIdempotencyKey reads the Idempotency-Key header, minting a fresh key
// when the client sends none.
func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	header := c.GetHeader("Idempotency-Key")
	if header == "" {
		return uuid.New(), nil
	}
	key, err := uuid.Parse(header)
	if err != nil {
		return uuid.Nil, errors.New("Idempotency-Key must be a valid UUID")
	}
	return key, nil
}
