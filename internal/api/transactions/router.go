package transactions

import (
	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/Conversly/analytics-dashboard/internal/webhook"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the read endpoints on api and the webhook receiver on webhooks.
func RegisterRoutes(api, webhooks *gin.RouterGroup, repo *repository.TransactionRepository, processor *webhook.Processor) {
	controller := NewController(repo, processor)
	api.GET("/transactions", controller.List)
	api.GET("/transactions/:id", controller.Get)
	webhooks.POST("/transactions", controller.Webhook)
}
