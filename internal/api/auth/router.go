package auth

import (
	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, users *repository.UserRepository, sessions *repository.SessionRepository) {
	controller := NewController(NewService(users, sessions))
	router.POST("/login", controller.Login)
	router.POST("/logout", controller.Logout)
	router.GET("/me", controller.Me)
}
