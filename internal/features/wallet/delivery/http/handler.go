package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/common/middleware"
	"recycle-rewards-backend/internal/features/wallet/models"
	"recycle-rewards-backend/internal/features/wallet/service"
)

type WalletHandler struct {
	service service.WalletService
}

func NewWalletHandler(service service.WalletService) *WalletHandler {
	return &WalletHandler{
		service: service,
	}
}

func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup) {
	wallet := router.Group("/wallet")
	{
		wallet.POST("/session", h.open)
		wallet.GET("/session", h.session)
		wallet.POST("/session/kind", h.selectKind)
		wallet.PUT("/session/amount", h.setAmount)
		wallet.POST("/session/max", h.useMax)
		wallet.POST("/session/confirm", h.confirm)
		wallet.POST("/session/retry", h.retry)
		wallet.DELETE("/session", h.close)
		wallet.GET("/redemptions", h.listRedemptions)
		wallet.GET("/rate", h.rate)
	}
}

// @Summary Redemption rate
// @Description Returns the display cash rate per ZOINT and the minimum redeemable amount.
// @Tags wallet
// @Produce json
// @Success 200 {object} map[string]interface{} "Rate"
// @Router /wallet/rate [get]
func (h *WalletHandler) rate(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cash_per_zoint":     models.CashPerZoint,
		"min_redemption":     models.MinRedemptionZoints,
		"balance_cash_value": models.CashValue(user.ZointBalance),
		"zoint_balance":      user.ZointBalance,
	})
}

// @Summary Open the wallet
// @Description Opens (or reopens) the redemption wizard. The session always starts on a clean menu.
// @Tags wallet
// @Produce json
// @Success 200 {object} models.SessionView "Session"
// @Router /wallet/session [post]
func (h *WalletHandler) open(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.service.Open(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Current session
// @Description Returns the wizard's current state, including the submitted request after success.
// @Tags wallet
// @Produce json
// @Success 200 {object} models.SessionView "Session"
// @Failure 404 {object} middleware.ErrorResponse "No open session"
// @Router /wallet/session [get]
func (h *WalletHandler) session(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.service.Session(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Choose redemption kind
// @Description Moves menu to input for cash or charity. The goods option is permanently disabled and selecting it is inert.
// @Tags wallet
// @Accept json
// @Produce json
// @Param kind body models.SelectKindInput true "Redemption kind"
// @Success 200 {object} models.SessionView "Session"
// @Failure 409 {object} middleware.ErrorResponse "Not on the menu step"
// @Router /wallet/session/kind [post]
func (h *WalletHandler) selectKind(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.SelectKindInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.SelectKind(c.Request.Context(), user.ID, input.Kind)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Edit amount
// @Description Stores the raw amount field. Validation runs on confirm, not here.
// @Tags wallet
// @Accept json
// @Produce json
// @Param amount body models.AmountInput true "Raw amount"
// @Success 200 {object} models.SessionView "Session"
// @Router /wallet/session/amount [put]
func (h *WalletHandler) setAmount(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.AmountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.SetAmount(c.Request.Context(), user.ID, input.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Use full balance
// @Description Fills the amount with the exact current balance and clears any prior error.
// @Tags wallet
// @Produce json
// @Success 200 {object} models.SessionView "Session"
// @Router /wallet/session/max [post]
func (h *WalletHandler) useMax(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.service.UseMax(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Confirm redemption
// @Description Runs the validation ladder and submits the request. Validation failures come back inline on the session, not as errors.
// @Tags wallet
// @Produce json
// @Success 200 {object} models.SessionView "Session"
// @Failure 409 {object} middleware.ErrorResponse "Submission already in flight"
// @Router /wallet/session/confirm [post]
func (h *WalletHandler) confirm(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.service.Confirm(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Retry a failed submission
// @Description Returns a failed session to the input step with the amount preserved.
// @Tags wallet
// @Produce json
// @Success 200 {object} models.SessionView "Session"
// @Failure 409 {object} middleware.ErrorResponse "Session has not failed"
// @Router /wallet/session/retry [post]
func (h *WalletHandler) retry(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.service.Retry(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Close the wallet
// @Description Schedules the delayed reset back to the menu. An in-flight submission keeps running; its result is discarded.
// @Tags wallet
// @Success 204 "Closed"
// @Router /wallet/session [delete]
func (h *WalletHandler) close(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.service.Close(c.Request.Context(), user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Redemption history
// @Description Lists the user's submitted redemption requests, newest first.
// @Tags wallet
// @Produce json
// @Success 200 {array} models.RedemptionRequest "Requests"
// @Router /wallet/redemptions [get]
func (h *WalletHandler) listRedemptions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requests, err := h.service.ListRedemptions(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, requests)
}
