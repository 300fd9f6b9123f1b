package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"anopog_wbs/internal/sms"
)

// SMSController validates and forwards outbound text messages.
type SMSController struct {
	client *sms.Client
}

func NewSMSController(client *sms.Client) *SMSController {
	return &SMSController{client: client}
}

type sendSMSInput struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (sc *SMSController) SendSMS(c *gin.Context) {
	var input sendSMSInput
	if err := c.ShouldBindJSON(&input); err != nil || input.To == "" || input.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing required fields: 'to' (phone number) and 'message'",
		})
		return
	}

	if err := sms.ValidatePhone(input.To); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := sms.ValidateMessage(input.Message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := sc.client.Send(c.Request.Context(), input.To, input.Message)
	if err != nil {
		logrus.WithError(err).WithField("to", input.To).Error("SMS send failed.")

		var apiErr *sms.APIError
		switch {
		case errors.Is(err, sms.ErrNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "SMS service not configured. Please check SEMAPHORE_API_KEY.",
			})
		case errors.As(err, &apiErr):
			c.JSON(apiErr.StatusCode, gin.H{
				"success": false,
				"error":   "SMS service error",
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "Unable to connect to SMS service.",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SMS sent successfully",
		"data":    result,
	})
}
