package orderControllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MoNRaSpGit/KioscoPiloto-Back/metrics"
	"github.com/MoNRaSpGit/KioscoPiloto-Back/models"
)

// Realtime event names pushed over the websocket channel.
const (
	EventNewOrder           = "new_order"
	EventOrderStatusUpdated = "order_status_updated"
)

// Bound on any single storage round-trip; a timeout surfaces as a
// storage failure (HTTP 500).
const storageTimeout = 5 * time.Second

var (
	ErrInvalidOrder  = errors.New("datos inválidos para el pedido")
	ErrInvalidStatus = errors.New("estado inválido")
	ErrOrderNotFound = errors.New("pedido no encontrado")
)

// Broadcaster fans order lifecycle events out to connected realtime
// clients. Delivery is best-effort and never blocks the caller.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// PushNotifier sends a web push message to every stored subscription.
type PushNotifier interface {
	NotifyAll(db *gorm.DB, payload []byte)
}

// -------- Request Structs --------

type OrderItemRequest struct {
	ID       uint    `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type PlaceOrderRequest struct {
	UserID   uint               `json:"userId"`
	Products []OrderItemRequest `json:"products"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Response Structs --------

// OrderItemView is a line item enriched with the referenced product's
// name and image, as the kiosk frontend displays it.
type OrderItemView struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type OrderView struct {
	ID        uint               `json:"id"`
	UserID    uint               `json:"user_id"`
	Status    models.OrderStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	Products  []OrderItemView    `json:"productos"`
}

// StatusChange is the payload of an order_status_updated event.
type StatusChange struct {
	ID     uint               `json:"id"`
	Status models.OrderStatus `json:"status"`
}

// -------- Helpers --------

// Map string to OrderStatus. Exact match, same as the frontend sends.
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch models.OrderStatus(status) {
	case models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusReady:
		return models.OrderStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}

func buildOrderView(order models.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Details))
	for _, d := range order.Details {
		items = append(items, OrderItemView{
			ID:       d.ProductID,
			Name:     d.Product.Name,
			Image:    d.Product.Image,
			Price:    d.Price,
			Quantity: d.Quantity,
		})
	}
	return OrderView{
		ID:        order.ID,
		UserID:    order.UserID,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		Products:  items,
	}
}

// -------- Core Logic --------

// PlaceOrder validates the requested items, writes the order header and
// its line items in a single transaction, and broadcasts the committed
// order. Items failing validation are dropped, not corrected; if nothing
// survives the whole request is rejected before any storage access.
func PlaceOrder(db *gorm.DB, notifier Broadcaster, req PlaceOrderRequest) (OrderView, error) {
	if req.UserID == 0 {
		return OrderView{}, ErrInvalidOrder
	}

	details := make([]models.OrderDetail, 0, len(req.Products))
	for _, p := range req.Products {
		if p.Quantity <= 0 || p.Price < 0 {
			continue
		}
		details = append(details, models.OrderDetail{
			ProductID: p.ID,
			Quantity:  p.Quantity,
			Price:     p.Price,
		})
	}
	if len(details) == 0 {
		return OrderView{}, ErrInvalidOrder
	}

	order := models.Order{
		UserID:    req.UserID,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range details {
			details[i].OrderID = order.ID
		}
		if err := tx.Omit("Product").Create(&details).Error; err != nil {
			return err
		}
		// Re-read inside the transaction so the broadcast payload carries
		// the joined product name/image.
		return tx.Preload("Details.Product").First(&order, order.ID).Error
	})
	if err != nil {
		return OrderView{}, err
	}

	view := buildOrderView(order)
	metrics.OrdersPlaced.Inc()
	notifier.Broadcast(EventNewOrder, view)
	return view, nil
}

// UpdateOrderStatus moves an order to one of the known statuses. Any
// status may move to any other, including itself; there is no transition
// table by design.
func UpdateOrderStatus(db *gorm.DB, notifier Broadcaster, orderID uint, status string) (models.OrderStatus, error) {
	newStatus, err := mapOrderStatus(status)
	if err != nil {
		return "", err
	}

	res := db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", newStatus)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrOrderNotFound
	}

	metrics.OrderStatusUpdates.Inc()
	notifier.Broadcast(EventOrderStatusUpdated, StatusChange{ID: orderID, Status: newStatus})
	return newStatus, nil
}

// GetOrders returns every order, newest first, with its line items joined
// to the referenced product. An empty store yields an empty slice, not an
// error.
func GetOrders(db *gorm.DB) ([]OrderView, error) {
	var orders []models.Order
	if err := db.
		Preload("Details.Product").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, buildOrderView(o))
	}
	return views, nil
}

// DeleteOrder removes the order and all its line items. Details go first
// so the ownership invariant holds even without FK cascade support.
func DeleteOrder(db *gorm.DB, orderID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).
			Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, orderID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}

// -------- Handlers --------

func PlaceOrderHandler(db *gorm.DB, notifier Broadcaster, pushSender PushNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos para el pedido."})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), storageTimeout)
		defer cancel()

		view, err := PlaceOrder(db.WithContext(ctx), notifier, req)
		if err != nil {
			if errors.Is(err, ErrInvalidOrder) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos para el pedido."})
				return
			}
			log.Printf("❌ Failed to place order: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar el pedido."})
			return
		}

		if pushSender != nil {
			msg, _ := json.Marshal(gin.H{"type": EventNewOrder, "orderId": view.ID})
			go pushSender.NotifyAll(db, msg)
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Pedido registrado con éxito.", "orderId": view.ID})
	}
}

func GetOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storageTimeout)
		defer cancel()

		views, err := GetOrders(db.WithContext(ctx))
		if err != nil {
			log.Printf("❌ Failed to fetch orders: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los pedidos."})
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func UpdateOrderStatusHandler(db *gorm.DB, notifier Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido inválido."})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Estado inválido."})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), storageTimeout)
		defer cancel()

		status, err := UpdateOrderStatus(db.WithContext(ctx), notifier, uint(orderID), req.Status)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidStatus):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Estado inválido."})
			case errors.Is(err, ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado."})
			default:
				log.Printf("❌ Failed to update status of order %d: %v", orderID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el estado del pedido."})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Estado actualizado con éxito.", "status": status})
	}
}

func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido inválido."})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), storageTimeout)
		defer cancel()

		if err := DeleteOrder(db.WithContext(ctx), uint(orderID)); err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado."})
				return
			}
			log.Printf("❌ Failed to delete order %d: %v", orderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el pedido."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Pedido eliminado con éxito."})
	}
}
