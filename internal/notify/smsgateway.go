package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// SMSGatewayChannel delivers reminders as text messages through an
// HTTP SMS gateway (form POST with basic auth)
type SMSGatewayChannel struct {
	apiURL     string
	username   string
	password   string
	fromName   string
	httpClient *http.Client
}

func NewSMSGatewayChannel() (*SMSGatewayChannel, error) {
	apiURL := os.Getenv("SMS_GATEWAY_URL")
	username := os.Getenv("SMS_GATEWAY_USER")
	password := os.Getenv("SMS_GATEWAY_PASSWORD")
	fromName := os.Getenv("SMS_GATEWAY_FROM")

	if apiURL == "" {
		return nil, fmt.Errorf("SMS_GATEWAY_URL not set")
	}
	if username == "" {
		return nil, fmt.Errorf("SMS_GATEWAY_USER not set")
	}
	if password == "" {
		return nil, fmt.Errorf("SMS_GATEWAY_PASSWORD not set")
	}

	return &SMSGatewayChannel{
		apiURL:     apiURL,
		username:   username,
		password:   password,
		fromName:   fromName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Send delivers one rendered reminder to one phone number
func (c *SMSGatewayChannel) Send(ctx context.Context, address, message string) error {
	if strings.TrimSpace(message) == "" {
		return &SendError{Reason: ReasonEmptyMessage}
	}
	if !validPhone(address) {
		return &SendError{Reason: ReasonInvalidAddress, Err: fmt.Errorf("address %s is not a phone number", MaskAddress(address))}
	}

	formData := url.Values{}
	formData.Set("to", address)
	formData.Set("from", c.fromName)
	formData.Set("text", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL,
		strings.NewReader(formData.Encode()))
	if err != nil {
		return &SendError{Reason: ReasonUnexpected, Err: err}
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &SendError{
			Reason: reasonForSMSStatus(resp.StatusCode),
			Err:    fmt.Errorf("gateway error %s: %s", resp.Status, string(body)),
		}
	}
	return nil
}

func reasonForSMSStatus(statusCode int) Reason {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ReasonAuthFailure
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ReasonInvalidAddress
	case http.StatusPaymentRequired, http.StatusTooManyRequests:
		return ReasonQuotaExceeded
	default:
		return ReasonUnexpected
	}
}

func validPhone(address string) bool {
	if address == "" {
		return false
	}
	for i, r := range address {
		if r == '+' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
