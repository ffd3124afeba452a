package session

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a blank document is submitted
	ErrEmptyInput = errors.New("please enter some text")

	// ErrBusy is returned when a submission is already in flight
	ErrBusy = errors.New("an extraction is already in progress")

	// ErrStale marks a response that arrived after a newer submission
	ErrStale = errors.New("extraction superseded by a newer submission")

	// ErrNoMatch is returned when an entity cannot be found in the document
	ErrNoMatch = errors.New("could not locate source text")

	// ErrUnknownEntity is returned for a selection that is not in the catalog
	ErrUnknownEntity = errors.New("unknown entity")
)

// ServiceError is a failure the extraction service reported
type ServiceError struct {
	StatusCode int
	Message    string
}

// Error returns the service message unchanged
func (e *ServiceError) Error() string {
	return e.Message
}

// TransportError covers failures delivering the request or reading the reply
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("extraction request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
