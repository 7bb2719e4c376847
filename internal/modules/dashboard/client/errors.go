package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork covers transport failures, including deadline expiry and
	// cancellation.
	ErrNetwork = errors.New("network failure")
	// ErrMalformedPayload is returned when a response body cannot be decoded
	// or misses required fields.
	ErrMalformedPayload = errors.New("malformed payload")
)

// StatusError is returned for a non-2xx upstream response.
type StatusError struct {
	Endpoint string
	Code     int
	Status   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.Endpoint, e.Status)
}
