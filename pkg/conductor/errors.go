package conductor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigMissing marks a required identifier that was not configured.
	// It is always reported before any request leaves the process.
	ErrConfigMissing = errors.New("configuration missing")
	// ErrTimeout marks a call that exceeded its deadline or was cancelled.
	ErrTimeout = errors.New("remote call timed out")
	// ErrUnreachable marks a transport-level failure reaching the API.
	ErrUnreachable = errors.New("remote system unreachable")
)

const (
	ErrorTypeIntegrationConnection = "INTEGRATION_CONNECTION_ERROR"
	ErrorTypeIntegration           = "INTEGRATION_ERROR"
	ErrorTypeInvalidRequest        = "INVALID_REQUEST_ERROR"
	ErrorTypeAuthentication        = "AUTHENTICATION_ERROR"
	ErrorTypeInternal              = "INTERNAL_ERROR"
)

const genericUserFacingMessage = "QuickBooks Desktop could not complete the request. Please try again."

// APIError is the decoded error envelope returned by the API.
// Message is technical; UserFacingMessage is safe to show to end users.
type APIError struct {
	HTTPStatusCode    int    `json:"httpStatusCode"`
	Type              string `json:"type"`
	Code              string `json:"code"`
	Message           string `json:"message"`
	UserFacingMessage string `json:"userFacingMessage"`
	RequestID         string `json:"requestId,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "conductor: status=%d", e.HTTPStatusCode)
	if e.Type != "" {
		fmt.Fprintf(&b, " type=%s", e.Type)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " code=%s", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	return b.String()
}

// IsConnectionError reports whether err means QuickBooks Desktop (or the
// API in front of it) could not be reached: the desktop is offline, a modal
// dialog is blocking it, or the wrong company file is open.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnreachable) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeIntegrationConnection
	}
	return false
}

// IsConflict reports whether err is a stale revisionNumber rejection.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.HTTPStatusCode == 409 || strings.Contains(strings.ToUpper(apiErr.Code), "REVISION")
}

// UserFacingMessage returns text that can be shown to an end user for err.
func UserFacingMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.UserFacingMessage) != "" {
		return strings.TrimSpace(apiErr.UserFacingMessage)
	}
	switch {
	case errors.Is(err, ErrTimeout):
		return "QuickBooks Desktop took too long to respond. Please try again."
	case errors.Is(err, ErrUnreachable):
		return "QuickBooks Desktop is not reachable right now. Make sure it is open and connected."
	case errors.Is(err, ErrConfigMissing):
		return "The assistant is not fully configured. Please contact your administrator."
	}
	return genericUserFacingMessage
}
