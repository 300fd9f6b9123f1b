package models

import "time"

// User deliberately does not embed gorm.Model: account deletion is a hard
// delete, and a soft-deleted row would keep holding the unique username.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `json:"username" gorm:"unique"`
	Password  string    `json:"-"`
	RoleID    uint      `json:"role_id"`
	Role      Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Purok     *string   `json:"purok,omitempty"` // optional locality / zone label

	// Billing relations
	MeterReadings []MeterReading `gorm:"foreignKey:UserID" json:"meter_readings,omitempty"`
	Bills         []Bill         `gorm:"foreignKey:UserID" json:"bills,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}
