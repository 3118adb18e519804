// Package whatsapp is a small WhatsApp Cloud API client used to push gig
// summaries to the musician's phone.
package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/gigboard/internal/config"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultRetryCount = 2
)

// Client sends text messages.
type Client interface {
	SendText(ctx context.Context, msg TextMessage) (string, error)
}

// TextMessage is a plain text message to one recipient.
type TextMessage struct {
	To         string
	Body       string
	PreviewURL bool
}

// APIError is a non-2xx answer from the Cloud API.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	TraceID    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error: status=%d code=%d message=%s", e.StatusCode, e.Code, e.Message)
}

type errorBody struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient    *resty.Client
	phoneNumberID string
}

// NewClient builds a client for the configured phone number. Server errors and
// rate limiting are retried a couple of times before giving up.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.APIVersion != "" {
		base = fmt.Sprintf("%s/%s", base, strings.Trim(cfg.APIVersion, "/"))
	}

	restyClient := resty.New().
		SetBaseURL(base).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(defaultTimeout).
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	return &APIClient{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// SendText posts a text message and returns the message id assigned by Meta.
func (c *APIClient) SendText(ctx context.Context, msg TextMessage) (string, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                msg.To,
		"type":              "text",
		"text": map[string]any{
			"body":        msg.Body,
			"preview_url": msg.PreviewURL,
		},
	}

	result := new(sendResponse)
	failure := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(failure).
		Post(fmt.Sprintf("%s/messages", c.phoneNumberID))
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.IsError() {
		return "", &APIError{
			StatusCode: resp.StatusCode(),
			Code:       failure.Error.Code,
			Message:    failure.Error.Message,
			TraceID:    failure.Error.FBTraceID,
		}
	}

	if len(result.Messages) == 0 {
		return "", nil
	}
	return result.Messages[0].ID, nil
}
