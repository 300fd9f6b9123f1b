// internal/models/notification.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is an append-only log entry shown on the admin dashboard.
// Distinct from the transient websocket events published by the realtime hub.
type Notification struct {
	gorm.Model
	UserID           uint      `json:"user_id" gorm:"index"`
	User             User      `gorm:"foreignKey:UserID" json:"-"`
	Message          string    `json:"message"`
	NotificationDate time.Time `json:"notification_date" gorm:"index"`
}
