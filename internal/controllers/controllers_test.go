package controllers

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"anopog_wbs/internal/models"
	"anopog_wbs/internal/realtime"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	nextID   uint
	users    map[uint]*models.User
	roles    map[uint]*models.Role
	readings []models.MeterReading
	bills    []models.Bill
	notes    []models.Notification
	failAll  bool
}

func newMemStore() *memStore {
	return &memStore{
		nextID: 1,
		users:  make(map[uint]*models.User),
		roles: map[uint]*models.Role{
			1: {Name: "admin"},
			2: {Name: "staff"},
			3: {Name: "customer"},
		},
	}
}

func (s *memStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memStore) CreateUser(_ context.Context, user *models.User) error {
	if s.failAll {
		return errors.New("store down")
	}
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	user.ID = s.allocID()
	if role, ok := s.roles[user.RoleID]; ok {
		user.Role = *role
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memStore) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) ListUsers(_ context.Context) ([]models.User, error) {
	if s.failAll {
		return nil, errors.New("store down")
	}
	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *memStore) UpdateUser(_ context.Context, id uint, updates map[string]interface{}) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := updates["username"].(string); ok {
		user.Username = v
	}
	if v, ok := updates["password"].(string); ok {
		user.Password = v
	}
	if v, ok := updates["role_id"].(uint); ok {
		user.RoleID = v
		if role, exists := s.roles[v]; exists {
			user.Role = *role
		}
	}
	if v, ok := updates["purok"].(string); ok {
		user.Purok = &v
	}
	clone := *user
	return &clone, nil
}

func (s *memStore) DeleteUser(_ context.Context, id uint) error {
	if _, ok := s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memStore) GetRoleByID(_ context.Context, id uint) (*models.Role, error) {
	role, ok := s.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (s *memStore) CreateReadingAndNotification(_ context.Context, reading *models.MeterReading, note *models.Notification) error {
	if s.failAll {
		return errors.New("store down")
	}
	reading.ID = s.allocID()
	note.ID = s.allocID()
	s.readings = append(s.readings, *reading)
	s.notes = append(s.notes, *note)
	return nil
}

func (s *memStore) CreateBillAndNotification(_ context.Context, bill *models.Bill, note *models.Notification) error {
	if s.failAll {
		return errors.New("store down")
	}
	bill.ID = s.allocID()
	note.ID = s.allocID()
	s.bills = append(s.bills, *bill)
	s.notes = append(s.notes, *note)
	return nil
}

func (s *memStore) ListRecentNotifications(_ context.Context, limit int) ([]models.Notification, error) {
	if s.failAll {
		return nil, errors.New("store down")
	}
	out := make([]models.Notification, len(s.notes))
	copy(out, s.notes)
	sort.Slice(out, func(i, j int) bool {
		return out[i].NotificationDate.After(out[j].NotificationDate)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// seedUser inserts an account with a bcrypt-hashed password.
func (s *memStore) seedUser(username, password string, roleID uint) *models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &models.User{Username: username, Password: string(hashed), RoleID: roleID}
	_ = s.CreateUser(context.Background(), user)
	return user
}

type stubUploader struct {
	url   string
	err   error
	calls int
}

func (u *stubUploader) Upload(_ context.Context, _ []byte, _, _ string) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

type capturePublisher struct {
	events []realtime.Event
}

func (p *capturePublisher) Publish(ev realtime.Event) {
	p.events = append(p.events, ev)
}
