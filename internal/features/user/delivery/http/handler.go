package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/common/middleware"
	"recycle-rewards-backend/internal/features/user/models"
	"recycle-rewards-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.PUT("/me", h.updateProfile)
		users.PUT("/me/avatar", h.updateAvatar)
		users.POST("/me/password/initiate", h.initiatePasswordChange)
		users.POST("/me/password/confirm", h.confirmPasswordChange)
	}
}

// @Summary Get current user
// @Description Returns the authenticated user's profile, balance and lifetime recycling record.
// @Tags users
// @Produce json
// @Success 200 {object} models.UserResponse "User data"
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Router /users/me [get]
func (h *UserHandler) getMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, service.ToUserResponse(user))
}

// @Summary Update profile
// @Description Applies partial profile edits; omitted fields stay unchanged.
// @Tags users
// @Accept json
// @Produce json
// @Param profile body models.ProfileUpdate true "Fields to update"
// @Success 200 {object} models.UserResponse "Updated user"
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Router /users/me [put]
func (h *UserHandler) updateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), user.ID, input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, service.ToUserResponse(updated))
}

type avatarUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
	SizeBytes   int64  `json:"size_bytes" binding:"required"`
	URL         string `json:"url" binding:"required,url"`
}

// @Summary Update avatar
// @Description Validates the uploaded image's type and size and records its hosted URL.
// @Tags users
// @Accept json
// @Produce json
// @Param upload body avatarUploadRequest true "Upload metadata"
// @Success 200 {object} models.UserResponse "Updated user"
// @Failure 400 {object} middleware.ErrorResponse "Unsupported image type"
// @Failure 413 {object} middleware.ErrorResponse "Image too large"
// @Router /users/me/avatar [put]
func (h *UserHandler) updateAvatar(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input avatarUploadRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateAvatar(c.Request.Context(), user.ID, input.ContentType, input.SizeBytes, input.URL)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, service.ToUserResponse(updated))
}

// @Summary Initiate password change
// @Description Verifies the current password and sends a verification code out of band.
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body models.InitiatePasswordChange true "Current password"
// @Success 202 {object} map[string]string "Code sent"
// @Failure 403 {object} middleware.ErrorResponse "Wrong current password"
// @Router /users/me/password/initiate [post]
func (h *UserHandler) initiatePasswordChange(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.InitiatePasswordChange
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.InitiateChangePassword(c.Request.Context(), user.ID, input.CurrentPassword); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "verification code sent"})
}

// @Summary Confirm password change
// @Description Completes the password change with the verification code.
// @Tags users
// @Accept json
// @Produce json
// @Param confirmation body models.ConfirmPasswordChange true "Code and new password"
// @Success 200 {object} map[string]string "Password changed"
// @Failure 403 {object} middleware.ErrorResponse "Invalid verification code"
// @Router /users/me/password/confirm [post]
func (h *UserHandler) confirmPasswordChange(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.ConfirmPasswordChange
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ConfirmChangePassword(c.Request.Context(), user.ID, input.Code, input.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "password changed"})
}
