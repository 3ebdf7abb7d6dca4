package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNotConfigured is returned by every send when the access token or
	// phone number id is missing. No request is made.
	ErrNotConfigured = errors.New("whatsapp: outbound sending is not configured")

	// ErrInvalidMessage is returned when a message violates a platform limit
	// that cannot be fixed by truncation (e.g. four buttons).
	ErrInvalidMessage = errors.New("whatsapp: invalid message")
)

// APIError is a non-2xx response from the Graph API.
type APIError struct {
	StatusCode int
	Code       int
	Type       string
	Message    string
	TraceID    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("whatsapp API status %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("whatsapp API status %d: %s", e.StatusCode, e.Body)
}

// Failure reasons used as metric labels and log fields.
const (
	ReasonUnconfigured = "unconfigured"
	ReasonInvalid      = "invalid"
	ReasonTimeout      = "timeout"
	ReasonCanceled     = "canceled"
	ReasonNetwork      = "network"
	ReasonClientError  = "api_4xx"
	ReasonServerError  = "api_5xx"
	ReasonUnknown      = "unknown"
)

// FailureReason classifies a send error. It returns "" for nil.
func FailureReason(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	var netErr net.Error
	switch {
	case errors.Is(err, ErrNotConfigured):
		return ReasonUnconfigured
	case errors.Is(err, ErrInvalidMessage):
		return ReasonInvalid
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 500 {
			return ReasonServerError
		}
		return ReasonClientError
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return ReasonTimeout
		}
		return ReasonNetwork
	default:
		return ReasonUnknown
	}
}
