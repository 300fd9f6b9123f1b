// Package storage is the typed gateway to the relational store. The service
// and controller layers only ever see this interface, so the backing
// implementation can be swapped (or faked in tests) without touching them.
package storage

import (
	"context"

	"anopog_wbs/internal/models"
)

// Store defines every persistence operation the billing backend performs.
type Store interface {
	// Accounts
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpdateUser applies a partial field replace and returns the updated row.
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error

	GetRoleByID(ctx context.Context, id uint) (*models.Role, error)

	// Submission writes. Each persists the domain record together with its
	// notification row in a single transaction: either both land or neither.
	CreateReadingAndNotification(ctx context.Context, reading *models.MeterReading, note *models.Notification) error
	CreateBillAndNotification(ctx context.Context, bill *models.Bill, note *models.Notification) error

	// ListRecentNotifications returns at most limit rows, newest first.
	ListRecentNotifications(ctx context.Context, limit int) ([]models.Notification, error)
}
