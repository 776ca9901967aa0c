package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	pushControllers "github.com/MoNRaSpGit/KioscoPiloto-Back/controllers/push"
)

func SetupPushRoutes(r *gin.Engine, db *gorm.DB) {
	push := r.Group("/api/push")
	{
		push.GET("/public-key", pushControllers.PublicKeyHandler())
		push.POST("/subscribe", pushControllers.SubscribeHandler(db))
	}
}
