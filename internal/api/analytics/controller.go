package analytics

import (
	"net/http"

	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Controller struct {
	repo *repository.AnalyticsRepository
}

func NewController(repo *repository.AnalyticsRepository) *Controller {
	return &Controller{repo: repo}
}

func (ctrl *Controller) ChartData(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	charts, err := ctrl.repo.ChartDataForUser(c.Request.Context(), userID)
	if err != nil {
		utils.Zlog.Error("Failed to load chart data", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.ChartDataListResponse{ChartData: charts})
}

func (ctrl *Controller) UpdateChart(c *gin.Context) {
	var req types.ChartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}
	if *req.NewValue < 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(http.StatusBadRequest, "newValue cannot be negative"))
		return
	}

	updated, err := ctrl.repo.UpdateChartValue(c.Request.Context(), req.UserID, req.ChartID, *req.NewValue)
	if err != nil {
		utils.Zlog.Error("Failed to update chart", zap.String("chartId", req.ChartID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(http.StatusNotFound, "chart "+req.ChartID+" not found"))
		return
	}
	c.JSON(http.StatusOK, types.ChartDataResponse{ChartData: *updated})
}

func (ctrl *Controller) CallAnalytics(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	rows, err := ctrl.repo.CallAnalyticsForUser(c.Request.Context(), userID)
	if err != nil {
		utils.Zlog.Error("Failed to load call analytics", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.CallAnalyticsResponse{CallAnalytics: rows})
}

func requireUserID(c *gin.Context) (string, bool) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(http.StatusBadRequest, "userId is required"))
		return "", false
	}
	return userID, true
}
