// Package api is a local development stand-in for the dashboard's remote API.
// It serves the same endpoints from the local store so the remote path of the
// client can be exercised end to end.
package api

import (
	"github.com/Conversly/analytics-dashboard/internal/api/analytics"
	"github.com/Conversly/analytics-dashboard/internal/api/auth"
	"github.com/Conversly/analytics-dashboard/internal/api/transactions"
	"github.com/Conversly/analytics-dashboard/internal/loaders"
	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/Conversly/analytics-dashboard/internal/webhook"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Store          loaders.Store
	Users          *repository.UserRepository
	Sessions       *repository.SessionRepository
	Transactions   *repository.TransactionRepository
	Analytics      *repository.AnalyticsRepository
	Processor      *webhook.Processor
	AllowedOrigins []string
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())
	if len(deps.AllowedOrigins) > 0 {
		router.Use(CORS(deps.AllowedOrigins))
	}
	RegisterRoutes(router, deps)
	return router
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthHandler(StoreProbe{Store: deps.Store}))

	apiGroup := router.Group("/api")
	auth.RegisterRoutes(apiGroup.Group("/auth"), deps.Users, deps.Sessions)
	analytics.RegisterRoutes(apiGroup.Group("/analytics"), deps.Analytics)
	transactions.RegisterRoutes(apiGroup, router.Group("/v1/webhooks"), deps.Transactions, deps.Processor)
}
