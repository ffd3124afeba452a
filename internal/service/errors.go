package service

import (
	"errors"
	"fmt"
)

// APIError is a failure reported by the extraction service itself
type APIError struct {
	StatusCode int
	Message    string // Service-provided text, shown to the user as is
}

func (e *APIError) Error() string {
	return fmt.Sprintf("extraction service error (status %d): %s", e.StatusCode, e.Message)
}

// ErrMalformedResponse marks a body that failed decoding or schema validation
var ErrMalformedResponse = errors.New("malformed service response")

// ErrUnexpectedStatus marks a non-2xx reply without an error field, such as a
// proxy error page
var ErrUnexpectedStatus = errors.New("unexpected service status")

// IsAPIError reports whether err carries an *APIError
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
