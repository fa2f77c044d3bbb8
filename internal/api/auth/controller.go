package auth

import (
	"errors"
	"net/http"

	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionHeader = "X-Session-Id"

type Controller struct {
	service *Service
}

func NewController(service *Service) *Controller {
	return &Controller{service: service}
}

// Login godoc
// @Summary Log in by email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body types.LoginRequest true "Login Request"
// @Success 200 {object} types.LoginResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /api/auth/login [post]
func (ctrl *Controller) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	resp, err := ctrl.service.Login(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(http.StatusBadRequest, err.Error()))
			return
		}
		utils.Zlog.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ctrl *Controller) Logout(c *gin.Context) {
	var req types.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}
	if err := ctrl.service.Logout(c.Request.Context(), req.SessionID); err != nil {
		utils.Zlog.Error("Logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.MessageResponse{Message: "Logged out successfully"})
}

func (ctrl *Controller) Me(c *gin.Context) {
	sessionID := c.GetHeader(sessionHeader)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, types.NewErrorResponse(http.StatusUnauthorized, "missing "+sessionHeader+" header"))
		return
	}

	user, err := ctrl.service.Me(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, types.NewErrorResponse(http.StatusUnauthorized, "session expired or unknown"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.UserResponse{User: *user})
}
