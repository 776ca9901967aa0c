package models

import "time"

type OrderStatus string

const (
	// Order statuses (kiosk flow: placed -> being prepared -> ready for pickup)
	OrderStatusPending    OrderStatus = "Pendiente"
	OrderStatusProcessing OrderStatus = "Procesando"
	OrderStatusReady      OrderStatus = "Listo"
)

type Order struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	Status    OrderStatus   `gorm:"type:VARCHAR(20);default:'Pendiente'" json:"status"`
	Details   []OrderDetail `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"details"`
	CreatedAt time.Time     `json:"created_at"`
}

// OrderDetail captures the product price at order time, so historical
// orders are immune to later price changes.
type OrderDetail struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
}
