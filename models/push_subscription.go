package models

import "time"

// PushSubscription is one browser's web-push endpoint. Endpoint is unique:
// re-subscribing refreshes the keys instead of adding a duplicate.
type PushSubscription struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Endpoint  string    `gorm:"uniqueIndex;not null" json:"endpoint"`
	P256dh    string    `gorm:"not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}
