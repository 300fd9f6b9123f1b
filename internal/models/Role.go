// internal/models/role.go
package models

import "gorm.io/gorm"

// Role classifies an account: "admin", "staff" or "customer".
// Read-only in the billing flow; rows are seeded at startup.
type Role struct {
	gorm.Model
	Name string `json:"name" gorm:"unique;not null"`
}
