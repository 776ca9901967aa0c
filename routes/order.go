package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/MoNRaSpGit/KioscoPiloto-Back/controllers/order"
	pushControllers "github.com/MoNRaSpGit/KioscoPiloto-Back/controllers/push"
	"github.com/MoNRaSpGit/KioscoPiloto-Back/realtime"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, hub *realtime.Hub, sender *pushControllers.Sender) {
	orders := r.Group("/api/orders")
	{
		// Create a new order
		orders.POST("", orderControllers.PlaceOrderHandler(db, hub, sender))

		// Fetch all orders with their line items
		orders.GET("", orderControllers.GetOrdersHandler(db))

		// Websocket endpoint for real-time order updates
		orders.GET("/ws", orderControllers.OrderWebSocketHandler(hub))

		// Update order status (Pendiente / Procesando / Listo)
		orders.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(db, hub))

		// Delete an order and its line items
		orders.DELETE("/:id", orderControllers.DeleteOrderHandler(db))
	}
}
