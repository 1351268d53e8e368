package notify

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridChannel delivers reminders by email through SendGrid
type SendGridChannel struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	subject   string
}

func NewSendGridChannel() (*SendGridChannel, error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_NOTIFICATIONS_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	if apiKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY not set")
	}
	if fromEmail == "" {
		return nil, fmt.Errorf("SENDGRID_NOTIFICATIONS_FROM_EMAIL not set")
	}

	subject := os.Getenv("REMINDER_EMAIL_SUBJECT")
	if subject == "" {
		subject = "תזכורת משמרת"
	}

	return &SendGridChannel{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		subject:   subject,
	}, nil
}

// Send delivers one rendered reminder to one email address
func (c *SendGridChannel) Send(ctx context.Context, address, message string) error {
	if strings.TrimSpace(message) == "" {
		return &SendError{Reason: ReasonEmptyMessage}
	}
	if !strings.Contains(address, "@") {
		return &SendError{Reason: ReasonInvalidAddress, Err: fmt.Errorf("address %s is not an email", MaskAddress(address))}
	}

	from := mail.NewEmail(c.fromName, c.fromEmail)
	to := mail.NewEmail("", address)
	email := mail.NewSingleEmail(from, c.subject, to, message, "")

	response, err := c.client.SendWithContext(ctx, email)
	if err != nil {
		return classifyTransport(err)
	}
	if response.StatusCode >= 400 {
		return &SendError{
			Reason: reasonForStatus(response.StatusCode),
			Err:    fmt.Errorf("sendgrid returned status %d", response.StatusCode),
		}
	}
	return nil
}

// reasonForStatus maps gateway HTTP status codes into the taxonomy
func reasonForStatus(statusCode int) Reason {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ReasonAuthFailure
	case http.StatusBadRequest:
		return ReasonInvalidAddress
	case http.StatusTooManyRequests:
		return ReasonQuotaExceeded
	default:
		return ReasonUnexpected
	}
}
