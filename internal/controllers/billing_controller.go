package controllers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"anopog_wbs/internal/service"
)

// BillingController maps the submission and feed endpoints onto the
// write-and-notify service.
type BillingController struct {
	billing *service.Billing
}

func NewBillingController(billing *service.Billing) *BillingController {
	return &BillingController{billing: billing}
}

// SubmitMeterReading handles the multipart form posted by field devices:
// user_id and reading_value are required, the meter photo is optional.
func (bc *BillingController) SubmitMeterReading(c *gin.Context) {
	userIDStr := c.PostForm("user_id")
	valueStr := c.PostForm("reading_value")
	if userIDStr == "" || valueStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	userID, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user_id must be numeric"})
		return
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "reading_value must be numeric"})
		return
	}

	var image *service.ImageSubmission
	if header, err := c.FormFile("image"); err == nil {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded image"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded image"})
			return
		}
		image = &service.ImageSubmission{
			Data:        data,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	reading, err := bc.billing.SubmitMeterReading(c.Request.Context(), uint(userID), value, image)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Meter reading submission failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create meter reading"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "newReading": reading})
}

// Numeric fields bind through pointers so presence is checked without
// rejecting legitimate zero values (an amount_due of 0 is a valid bill).
type submitBillInput struct {
	UserID         *uint    `json:"user_id" binding:"required"`
	MeterReadingID *uint    `json:"meter_reading_id" binding:"required"`
	AmountDue      *float64 `json:"amount_due" binding:"required"`
	DueDate        string   `json:"due_date" binding:"required"`
}

// SubmitBill handles the JSON body posted by the admin dashboard (or the
// automated billing job).
func (bc *BillingController) SubmitBill(c *gin.Context) {
	var input submitBillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "due_date must be an RFC 3339 timestamp or YYYY-MM-DD"})
		return
	}

	bill, err := bc.billing.SubmitBill(c.Request.Context(), *input.UserID, *input.MeterReadingID, *input.AmountDue, dueDate)
	if err != nil {
		logrus.WithError(err).WithField("user_id", *input.UserID).Error("Bill submission failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create bill"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "newBill": bill})
}

// ListNotifications returns the global feed: 10 newest entries, newest first.
func (bc *BillingController) ListNotifications(c *gin.Context) {
	notes, err := bc.billing.RecentNotifications(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Notification feed query failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, notes)
}

func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
