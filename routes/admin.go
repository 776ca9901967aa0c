package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/MoNRaSpGit/KioscoPiloto-Back/controllers/order"
	userControllers "github.com/MoNRaSpGit/KioscoPiloto-Back/controllers/user"
	"github.com/MoNRaSpGit/KioscoPiloto-Back/middleware"
)

// SetupAdminRoutes registers the "/admin/*" endpoints. Requires a valid
// token with the admin role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken, middleware.RequireRole("admin"))
	{
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
		adminGroup.GET("/orders/export-excel", orderControllers.ExportOrdersToExcel(db))
	}
}
