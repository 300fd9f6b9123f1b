// Package sms relays text messages through the Semaphore gateway
// (https://semaphore.co), the provider used for Philippine mobile networks.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.semaphore.co/api/v4/messages"

// ErrNotConfigured means SEMAPHORE_API_KEY is absent from the environment.
var ErrNotConfigured = errors.New("SEMAPHORE_API_KEY is not configured")

// APIError is a non-2xx reply from the gateway itself.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sms gateway error: %d - %s", e.StatusCode, e.Body)
}

// Philippine mobile numbers: +639XXXXXXXXX or 09XXXXXXXXX.
var phonePattern = regexp.MustCompile(`^(\+63|0)9\d{9}$`)

// MaxMessageLength is the single-segment SMS limit enforced by the gateway.
const MaxMessageLength = 160

// ValidatePhone checks the Philippine mobile number format.
func ValidatePhone(number string) error {
	if number == "" {
		return errors.New("phone number is required")
	}
	if !phonePattern.MatchString(number) {
		return errors.New("Invalid phone number format. Use Philippine format: +639XXXXXXXXX or 09XXXXXXXXX")
	}
	return nil
}

// ValidateMessage checks presence and the 160-character segment limit. The
// limit counts characters, not bytes, so accented text is not shortchanged.
func ValidateMessage(message string) error {
	if message == "" {
		return errors.New("message is required")
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return fmt.Errorf("Message too long. Maximum %d characters allowed", MaxMessageLength)
	}
	return nil
}

// Client talks to the Semaphore HTTP API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a gateway client. baseURL may be empty to use the real
// Semaphore endpoint; tests point it at a local server.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type sendRequest struct {
	APIKey  string `json:"apikey"`
	Number  string `json:"number"`
	Message string `json:"message"`
}

// Send forwards one message to the gateway and returns its decoded response.
// The caller is expected to have validated the number and message already.
func (c *Client) Send(ctx context.Context, to, message string) (interface{}, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	// The gateway rejects numbers containing whitespace.
	clean := strings.Join(strings.Fields(to), "")

	body, err := json.Marshal(sendRequest{APIKey: c.apiKey, Number: clean, Message: message})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Failed to reach SMS gateway.")
		return nil, fmt.Errorf("unable to connect to SMS service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(raw),
		}).Error("SMS gateway rejected the message.")
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Some gateway responses are plain text; pass them through as-is.
		decoded = string(raw)
	}

	logrus.WithField("number", clean).Info("SMS forwarded to gateway.")
	return decoded, nil
}
