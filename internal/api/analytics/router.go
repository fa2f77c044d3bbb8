package analytics

import (
	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, repo *repository.AnalyticsRepository) {
	controller := NewController(repo)
	router.GET("/chart", controller.ChartData)
	router.PUT("/chart", controller.UpdateChart)
	router.GET("/calls", controller.CallAnalytics)
}
