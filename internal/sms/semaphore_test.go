package sms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"09171234567", "+639171234567"}
	for _, number := range valid {
		assert.NoError(t, ValidatePhone(number), number)
	}

	invalid := []string{
		"",
		"639171234567",  // missing +63 or 0 prefix
		"0917123456",    // too short
		"091712345678",  // too long
		"+63917123456a", // non-digit
		"08171234567",   // not a 9-prefixed mobile number
	}
	for _, number := range invalid {
		assert.Error(t, ValidatePhone(number), number)
	}
}

func TestValidateMessageLength(t *testing.T) {
	assert.Error(t, ValidateMessage(""))
	assert.NoError(t, ValidateMessage(strings.Repeat("a", 160)))
	assert.Error(t, ValidateMessage(strings.Repeat("a", 161)))
}

func TestValidateMessageCountsCharactersNotBytes(t *testing.T) {
	// "ñ" is two bytes in UTF-8; 160 of them is still one SMS segment.
	assert.NoError(t, ValidateMessage(strings.Repeat("ñ", 160)))
	assert.Error(t, ValidateMessage(strings.Repeat("ñ", 161)))
}

func TestSendPostsCleanedNumber(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"message_id": 1, "status": "Pending"}]`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL)
	resp, err := client.Send(context.Background(), "0917 123 4567", "Your bill is ready.")
	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "test-key", got.APIKey)
	assert.Equal(t, "09171234567", got.Number)
	assert.Equal(t, "Your bill is ready.", got.Message)
}

func TestSendWithoutAPIKey(t *testing.T) {
	client := NewClient("", "http://unused")
	_, err := client.Send(context.Background(), "09171234567", "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendSurfacesGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad-key", srv.URL)
	_, err := client.Send(context.Background(), "09171234567", "hello")

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestSendUnreachableGateway(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient("test-key", srv.URL)
	_, err := client.Send(context.Background(), "09171234567", "hello")
	assert.Error(t, err)

	// Connection failures are transport errors, not gateway replies.
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.NotErrorIs(t, err, ErrNotConfigured)
}
