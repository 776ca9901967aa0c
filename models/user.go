package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Password  string    `gorm:"not null" json:"-"`
	Direccion string    `json:"direccion"`
	Role      string    `gorm:"type:VARCHAR(10);default:'user'" json:"role"`
	Orders    []Order   `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
