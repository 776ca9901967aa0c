package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	pushControllers "github.com/MoNRaSpGit/KioscoPiloto-Back/controllers/push"
	"github.com/MoNRaSpGit/KioscoPiloto-Back/realtime"
)

// SetupRoutes is the single entry-point that wires up the public API, the
// realtime channel, and the admin route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, hub *realtime.Hub, sender *pushControllers.Sender) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Bienvenido al backend de MercadoYa!")
	})

	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Catalog
	SetupProductRoutes(r, db)

	// Orders + websocket channel
	SetupOrderRoutes(r, db, hub, sender)

	// Web push subscriptions
	SetupPushRoutes(r, db)

	// Admin routes (JWT + admin role)
	SetupAdminRoutes(r, db)
}
