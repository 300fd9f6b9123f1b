package models

import (
	"time"

	"gorm.io/gorm"
)

// Bill is created once per billing event and never modified.
type Bill struct {
	gorm.Model
	UserID         uint         `json:"user_id" gorm:"index"`
	User           User         `gorm:"foreignKey:UserID" json:"-"`
	MeterReadingID uint         `json:"meter_reading_id"`
	MeterReading   MeterReading `gorm:"foreignKey:MeterReadingID" json:"-"`
	AmountDue      float64      `json:"amount_due"`
	DueDate        time.Time    `json:"due_date"`
}
