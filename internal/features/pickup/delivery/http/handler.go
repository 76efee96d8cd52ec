package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/common/middleware"
	"recycle-rewards-backend/internal/features/pickup/models"
	"recycle-rewards-backend/internal/features/pickup/service"
	usermodels "recycle-rewards-backend/internal/features/user/models"
)

type PickupHandler struct {
	service service.PickupService
}

func NewPickupHandler(service service.PickupService) *PickupHandler {
	return &PickupHandler{
		service: service,
	}
}

func (h *PickupHandler) RegisterRoutes(router *gin.RouterGroup) {
	pickups := router.Group("/pickups")
	{
		pickups.GET("", h.list)
		pickups.POST("", h.schedule)
	}

	collector := router.Group("/pickups")
	collector.Use(middleware.RequireRole(usermodels.RoleCollector))
	{
		collector.POST("/:id/assign", h.assign)
		collector.POST("/:id/complete", h.complete)
		collector.POST("/:id/missed", h.markMissed)
	}
}

// @Summary List pickups
// @Description Lists every pickup visible to the caller's role: residents see their own, collectors their assignments, admins everything.
// @Tags pickups
// @Produce json
// @Success 200 {array} models.PickupTask "Pickups"
// @Router /pickups [get]
func (h *PickupHandler) list(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pickups, err := h.service.GetPickupsByRole(c.Request.Context(), user.Role, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, pickups)
}

// @Summary Schedule a pickup
// @Description Schedules a new waste collection for the authenticated resident.
// @Tags pickups
// @Accept json
// @Produce json
// @Param pickup body models.PickupCreate true "Pickup details"
// @Success 201 {object} models.PickupTask "Scheduled pickup"
// @Failure 400 {object} middleware.ErrorResponse "Invalid request"
// @Router /pickups [post]
func (h *PickupHandler) schedule(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.PickupCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pickup, err := h.service.Schedule(c.Request.Context(), user.ID, input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, pickup)
}

// @Summary Assign a pickup
// @Description Assigns a pending pickup to the authenticated collector.
// @Tags pickups
// @Produce json
// @Param id path string true "Pickup ID"
// @Success 200 {object} models.PickupTask "Assigned pickup"
// @Failure 404 {object} middleware.ErrorResponse "Pickup not found"
// @Failure 409 {object} middleware.ErrorResponse "Not pending"
// @Router /pickups/{id}/assign [post]
func (h *PickupHandler) assign(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pickup, err := h.service.Assign(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, pickup)
}

// @Summary Complete a pickup
// @Description Records the weigh-in and per-category items; earned ZOINTs are credited to the resident.
// @Tags pickups
// @Accept json
// @Produce json
// @Param id path string true "Pickup ID"
// @Param completion body models.PickupComplete true "Completion record"
// @Success 200 {object} models.PickupTask "Completed pickup"
// @Failure 403 {object} middleware.ErrorResponse "Assigned to a different collector"
// @Failure 409 {object} middleware.ErrorResponse "Already completed"
// @Router /pickups/{id}/complete [post]
func (h *PickupHandler) complete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.PickupComplete
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pickup, err := h.service.Complete(c.Request.Context(), c.Param("id"), user.ID, input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, pickup)
}

// @Summary Mark a pickup missed
// @Description Marks an assigned pickup as missed by the resident.
// @Tags pickups
// @Produce json
// @Param id path string true "Pickup ID"
// @Success 200 {object} models.PickupTask "Missed pickup"
// @Router /pickups/{id}/missed [post]
func (h *PickupHandler) markMissed(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pickup, err := h.service.MarkMissed(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, pickup)
}
