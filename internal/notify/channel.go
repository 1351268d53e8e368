package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// Reason classifies a failed send into a gateway-independent taxonomy
type Reason string

const (
	ReasonAuthFailure    Reason = "auth_failure"
	ReasonInvalidAddress Reason = "invalid_address"
	ReasonEmptyMessage   Reason = "empty_message"
	ReasonQuotaExceeded  Reason = "quota_exceeded"
	ReasonTimeout        Reason = "timeout"
	ReasonNetworkError   Reason = "network_error"
	ReasonUnexpected     Reason = "unexpected"
)

// SendError is the error returned by channel implementations for a failed send
type SendError struct {
	Reason Reason
	Err    error
}

func (e *SendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return string(e.Reason)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the taxonomy reason from a send error
func ReasonOf(err error) Reason {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr.Reason
	}
	return ReasonUnexpected
}

// Channel sends one message to one address. Implementations map gateway
// failures into the Reason taxonomy and must never log the full address.
type Channel interface {
	Send(ctx context.Context, address, message string) error
}

// NewChannelFromEnv builds the configured channel implementation.
// NOTIFY_CHANNEL selects "email" (default) or "sms". A configuration error
// here is fatal at startup and nowhere else.
func NewChannelFromEnv() (Channel, error) {
	switch os.Getenv("NOTIFY_CHANNEL") {
	case "", "email":
		return NewSendGridChannel()
	case "sms":
		return NewSMSGatewayChannel()
	default:
		return nil, fmt.Errorf("unknown NOTIFY_CHANNEL %q", os.Getenv("NOTIFY_CHANNEL"))
	}
}

// MaskAddress redacts all but the last four characters of an address so
// logs and audit rows never carry a full email or phone number
func MaskAddress(address string) string {
	runes := []rune(address)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}

// classifyTransport maps network-level failures into the taxonomy
func classifyTransport(err error) *SendError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &SendError{Reason: ReasonTimeout, Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &SendError{Reason: ReasonTimeout, Err: err}
	case errors.As(err, &netErr):
		return &SendError{Reason: ReasonNetworkError, Err: err}
	default:
		return &SendError{Reason: ReasonUnexpected, Err: err}
	}
}
