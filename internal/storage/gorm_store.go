package storage

import (
	"context"

	"gorm.io/gorm"

	"anopog_wbs/internal/models"
)

// GormStore implements Store on top of a GORM Postgres handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *GormStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Role").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Preload("Role").Order("username asc").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return s.GetUserByID(ctx, id)
}

func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *GormStore) GetRoleByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateReadingAndNotification persists a reading and its notification row
// atomically. The broadcast to live dashboards happens upstream, after this
// commits.
func (s *GormStore) CreateReadingAndNotification(ctx context.Context, reading *models.MeterReading, note *models.Notification) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reading).Error; err != nil {
			return err
		}
		return tx.Create(note).Error
	})
}

func (s *GormStore) CreateBillAndNotification(ctx context.Context, bill *models.Bill, note *models.Notification) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bill).Error; err != nil {
			return err
		}
		return tx.Create(note).Error
	})
}

func (s *GormStore) ListRecentNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	var notes []models.Notification
	err := s.db.WithContext(ctx).Order("notification_date desc").Limit(limit).Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}
