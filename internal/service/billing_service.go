// Package service holds the write-and-notify flow at the center of the
// billing backend: every accepted submission produces one domain record, one
// notification row and one broadcast event.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"anopog_wbs/internal/imagestore"
	"anopog_wbs/internal/models"
	"anopog_wbs/internal/realtime"
	"anopog_wbs/internal/storage"
)

// The dashboard feed shows the latest entries only.
const recentNotificationLimit = 10

// Notification messages are fixed templates, not user input.
const (
	readingNotificationMessage = "New meter reading uploaded."
	billNotificationMessage    = "A new bill has been generated."
)

// ImageSubmission carries an optional meter photo alongside a reading.
type ImageSubmission struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Billing coordinates the image store, the persistence gateway and the
// realtime hub. All three are injected so tests can observe every step.
type Billing struct {
	store     storage.Store
	uploader  imagestore.Uploader
	publisher realtime.Publisher
}

func NewBilling(store storage.Store, uploader imagestore.Uploader, publisher realtime.Publisher) *Billing {
	return &Billing{store: store, uploader: uploader, publisher: publisher}
}

// SubmitMeterReading uploads the photo (if any), persists the reading with
// its notification atomically, then broadcasts the committed record. A failed
// upload aborts the whole submission with nothing persisted.
func (b *Billing) SubmitMeterReading(ctx context.Context, userID uint, value float64, image *ImageSubmission) (*models.MeterReading, error) {
	var imageURL *string
	if image != nil {
		url, err := b.uploader.Upload(ctx, image.Data, image.Filename, image.ContentType)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Meter photo upload failed, aborting submission.")
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		imageURL = &url
	}

	now := time.Now()
	reading := &models.MeterReading{
		UserID:       userID,
		ReadingValue: value,
		ImageURL:     imageURL,
		ReadingDate:  now,
	}
	note := &models.Notification{
		UserID:           userID,
		Message:          readingNotificationMessage,
		NotificationDate: now,
	}

	if err := b.store.CreateReadingAndNotification(ctx, reading, note); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to persist meter reading.")
		return nil, fmt.Errorf("could not save meter reading: %w", err)
	}

	// Publish only after the commit so subscribers never see a record that
	// later failed to land.
	b.publisher.Publish(realtime.Event{
		Event:   realtime.EventNewMeterReading,
		Message: fmt.Sprintf("New meter reading from user ID: %d", userID),
		Data:    reading,
	})

	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"reading_id": reading.ID,
		"has_image":  imageURL != nil,
	}).Info("Meter reading submitted.")

	return reading, nil
}

// SubmitBill persists a bill with its notification atomically and broadcasts
// the committed record.
func (b *Billing) SubmitBill(ctx context.Context, userID, meterReadingID uint, amountDue float64, dueDate time.Time) (*models.Bill, error) {
	bill := &models.Bill{
		UserID:         userID,
		MeterReadingID: meterReadingID,
		AmountDue:      amountDue,
		DueDate:        dueDate,
	}
	note := &models.Notification{
		UserID:           userID,
		Message:          billNotificationMessage,
		NotificationDate: time.Now(),
	}

	if err := b.store.CreateBillAndNotification(ctx, bill, note); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to persist bill.")
		return nil, fmt.Errorf("could not save bill: %w", err)
	}

	b.publisher.Publish(realtime.Event{
		Event:   realtime.EventNewBill,
		Message: fmt.Sprintf("New bill generated for user ID: %d", userID),
		Data:    bill,
	})

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"bill_id": bill.ID,
	}).Info("Bill submitted.")

	return bill, nil
}

// RecentNotifications returns the newest entries of the global feed.
func (b *Billing) RecentNotifications(ctx context.Context) ([]models.Notification, error) {
	return b.store.ListRecentNotifications(ctx, recentNotificationLimit)
}
