package api

import (
	"errors"
	"net/http"

	resdto "hostpanel/internal/handler/dto/response"
	"hostpanel/internal/handler/middleware"
	"hostpanel/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type EntitlementHandler struct {
	entitlementQueries queries.EntitlementQueries
	planQueries        queries.PlanQueries
}

func NewEntitlementHandler(entitlementQueries queries.EntitlementQueries, planQueries queries.PlanQueries) *EntitlementHandler {
	return &EntitlementHandler{
		entitlementQueries: entitlementQueries,
		planQueries:        planQueries,
	}
}

// @Summary Get own entitlements
// @Description Current coins, resource limits and plan grants for the authenticated user
// @Tags entitlements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.EntitlementResponse
// @Failure 401 {object} map[string]string
// @Router /entitlements [get]
func (h *EntitlementHandler) GetEntitlements(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.entitlementQueries.GetByUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrEntitlementNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromEntitlementView(view))
}

// @Summary List purchasable plans
// @Tags plans
// @Produce json
// @Success 200 {array} resdto.PlanResponse
// @Router /plans [get]
func (h *EntitlementHandler) ListPlans(c *gin.Context) {
	items, err := h.planQueries.ListEnabled(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	responses := make([]*resdto.PlanResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, resdto.FromPlanListItem(item))
	}
	c.JSON(http.StatusOK, responses)
}
