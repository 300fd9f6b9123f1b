package models

import (
	"time"

	"gorm.io/gorm"
)

// MeterReading is immutable once created; there is no update or delete path.
type MeterReading struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"index"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
	ReadingValue float64   `json:"reading_value"`
	ImageURL     *string   `json:"image_url"` // nil when no photo was submitted
	ReadingDate  time.Time `json:"reading_date"`
}
