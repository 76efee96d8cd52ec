package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/common/middleware"
	"recycle-rewards-backend/internal/features/impact/service"
)

type ImpactHandler struct {
	service service.ImpactService
}

func NewImpactHandler(service service.ImpactService) *ImpactHandler {
	return &ImpactHandler{
		service: service,
	}
}

func (h *ImpactHandler) RegisterRoutes(router *gin.RouterGroup) {
	impact := router.Group("/impact")
	{
		impact.GET("/summary", h.summary)
	}
}

// @Summary Impact summary
// @Description Returns total recycled weight, CO2 saved and the per-category breakdown for the authenticated user, derived fresh from the lifetime record and completed pickups.
// @Tags impact
// @Produce json
// @Success 200 {object} models.ImpactSummary "Impact summary"
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Router /impact/summary [get]
func (h *ImpactHandler) summary(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
