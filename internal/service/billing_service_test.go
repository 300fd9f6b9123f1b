package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"anopog_wbs/internal/models"
	"anopog_wbs/internal/realtime"
)

// fakeStore records submission writes and hands out sequential IDs.
type fakeStore struct {
	calls        *[]string
	failWrites   bool
	nextID       uint
	readings     []models.MeterReading
	bills        []models.Bill
	notes        []models.Notification
	listedLimits []int
}

func newFakeStore(calls *[]string) *fakeStore {
	return &fakeStore{calls: calls, nextID: 1}
}

func (s *fakeStore) CreateUser(context.Context, *models.User) error          { return nil }
func (s *fakeStore) GetUserByID(context.Context, uint) (*models.User, error) { return nil, nil }
func (s *fakeStore) GetUserByUsername(context.Context, string) (*models.User, error) {
	return nil, nil
}
func (s *fakeStore) ListUsers(context.Context) ([]models.User, error) { return nil, nil }
func (s *fakeStore) UpdateUser(context.Context, uint, map[string]interface{}) (*models.User, error) {
	return nil, nil
}
func (s *fakeStore) DeleteUser(context.Context, uint) error                  { return nil }
func (s *fakeStore) GetRoleByID(context.Context, uint) (*models.Role, error) { return nil, nil }

func (s *fakeStore) CreateReadingAndNotification(_ context.Context, reading *models.MeterReading, note *models.Notification) error {
	*s.calls = append(*s.calls, "store.CreateReadingAndNotification")
	if s.failWrites {
		return errors.New("database unavailable")
	}
	reading.ID = s.nextID
	note.ID = s.nextID + 1
	s.nextID += 2
	s.readings = append(s.readings, *reading)
	s.notes = append(s.notes, *note)
	return nil
}

func (s *fakeStore) CreateBillAndNotification(_ context.Context, bill *models.Bill, note *models.Notification) error {
	*s.calls = append(*s.calls, "store.CreateBillAndNotification")
	if s.failWrites {
		return errors.New("database unavailable")
	}
	bill.ID = s.nextID
	note.ID = s.nextID + 1
	s.nextID += 2
	s.bills = append(s.bills, *bill)
	s.notes = append(s.notes, *note)
	return nil
}

func (s *fakeStore) ListRecentNotifications(_ context.Context, limit int) ([]models.Notification, error) {
	s.listedLimits = append(s.listedLimits, limit)
	if limit > len(s.notes) {
		limit = len(s.notes)
	}
	return s.notes[:limit], nil
}

type fakeUploader struct {
	calls *[]string
	url   string
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, _ []byte, _, _ string) (string, error) {
	*u.calls = append(*u.calls, "uploader.Upload")
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

type recordingPublisher struct {
	events []realtime.Event
}

func (p *recordingPublisher) Publish(ev realtime.Event) {
	p.events = append(p.events, ev)
}

func newBillingFixture(t *testing.T) (*Billing, *fakeStore, *fakeUploader, *recordingPublisher, *[]string) {
	t.Helper()
	calls := &[]string{}
	store := newFakeStore(calls)
	uploader := &fakeUploader{calls: calls, url: "https://cdn.example.com/readings/1.jpg"}
	publisher := &recordingPublisher{}
	return NewBilling(store, uploader, publisher), store, uploader, publisher, calls
}

func TestSubmitMeterReadingWithoutImage(t *testing.T) {
	billing, store, _, publisher, calls := newBillingFixture(t)

	reading, err := billing.SubmitMeterReading(context.Background(), 5, 120.5, nil)
	assert.NoError(t, err)
	assert.Nil(t, reading.ImageURL)
	assert.Equal(t, uint(5), reading.UserID)
	assert.NotZero(t, reading.ID)

	// The uploader must never run without an image.
	assert.Equal(t, []string{"store.CreateReadingAndNotification"}, *calls)

	// Exactly one notification for the same account.
	assert.Len(t, store.notes, 1)
	assert.Equal(t, uint(5), store.notes[0].UserID)
	assert.Equal(t, "New meter reading uploaded.", store.notes[0].Message)

	// Exactly one broadcast carrying the persisted record.
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, realtime.EventNewMeterReading, publisher.events[0].Event)
	assert.Equal(t, "New meter reading from user ID: 5", publisher.events[0].Message)
	assert.Same(t, reading, publisher.events[0].Data)
}

func TestSubmitMeterReadingWithImage(t *testing.T) {
	billing, store, uploader, _, calls := newBillingFixture(t)

	image := &ImageSubmission{Data: []byte{0xFF, 0xD8}, Filename: "meter.jpg", ContentType: "image/jpeg"}
	reading, err := billing.SubmitMeterReading(context.Background(), 5, 120.5, image)
	assert.NoError(t, err)

	// Upload happens exactly once, strictly before the domain write.
	assert.Equal(t, []string{"uploader.Upload", "store.CreateReadingAndNotification"}, *calls)

	if assert.NotNil(t, reading.ImageURL) {
		assert.Equal(t, uploader.url, *reading.ImageURL)
	}
	if assert.NotNil(t, store.readings[0].ImageURL) {
		assert.Equal(t, uploader.url, *store.readings[0].ImageURL)
	}
}

func TestSubmitMeterReadingUploadFailureAbortsEverything(t *testing.T) {
	billing, store, uploader, publisher, calls := newBillingFixture(t)
	uploader.err = errors.New("object store down")

	image := &ImageSubmission{Data: []byte{0xFF, 0xD8}, Filename: "meter.jpg", ContentType: "image/jpeg"}
	_, err := billing.SubmitMeterReading(context.Background(), 5, 120.5, image)
	assert.Error(t, err)

	assert.Equal(t, []string{"uploader.Upload"}, *calls)
	assert.Empty(t, store.readings)
	assert.Empty(t, store.notes)
	assert.Empty(t, publisher.events)
}

func TestSubmitMeterReadingStoreFailurePublishesNothing(t *testing.T) {
	billing, store, _, publisher, _ := newBillingFixture(t)
	store.failWrites = true

	_, err := billing.SubmitMeterReading(context.Background(), 5, 120.5, nil)
	assert.Error(t, err)
	assert.Empty(t, publisher.events)
}

func TestSubmitBill(t *testing.T) {
	billing, store, _, publisher, calls := newBillingFixture(t)

	due := time.Now().AddDate(0, 1, 0)
	bill, err := billing.SubmitBill(context.Background(), 5, 9, 450.75, due)
	assert.NoError(t, err)
	assert.NotZero(t, bill.ID)
	assert.Equal(t, uint(9), bill.MeterReadingID)

	assert.Equal(t, []string{"store.CreateBillAndNotification"}, *calls)

	assert.Len(t, store.notes, 1)
	assert.Equal(t, uint(5), store.notes[0].UserID)
	assert.Equal(t, "A new bill has been generated.", store.notes[0].Message)

	assert.Len(t, publisher.events, 1)
	assert.Equal(t, realtime.EventNewBill, publisher.events[0].Event)
	assert.Equal(t, "New bill generated for user ID: 5", publisher.events[0].Message)
	assert.Same(t, bill, publisher.events[0].Data)
}

func TestSubmitBillStoreFailurePublishesNothing(t *testing.T) {
	billing, store, _, publisher, _ := newBillingFixture(t)
	store.failWrites = true

	_, err := billing.SubmitBill(context.Background(), 5, 9, 450.75, time.Now())
	assert.Error(t, err)
	assert.Empty(t, publisher.events)
}

func TestRecentNotificationsUsesFeedLimit(t *testing.T) {
	billing, store, _, _, _ := newBillingFixture(t)

	for i := 0; i < 12; i++ {
		_, err := billing.SubmitBill(context.Background(), uint(i+1), 1, 100, time.Now())
		assert.NoError(t, err)
	}

	notes, err := billing.RecentNotifications(context.Background())
	assert.NoError(t, err)
	assert.Len(t, notes, 10)
	assert.Equal(t, []int{10}, store.listedLimits)
}
