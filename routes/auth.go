package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "github.com/MoNRaSpGit/KioscoPiloto-Back/controllers/user"
)

// SetupAuthRoutes registers the public registration/login endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	r.POST("/api/register", userControllers.Register(db))
	r.POST("/api/login", userControllers.Login(db))
}
