package forecast

import "fmt"

// UpstreamError means the weather service was reachable but rejected the
// request with a non-success status.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("weather service returned status %d: %s", e.Status, e.Message)
}

// NetworkError means the request was sent but no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("no response from weather service: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ClientError means the request could not be constructed or sent at all.
type ClientError struct {
	Err error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("weather request failed: %v", e.Err)
}

func (e *ClientError) Unwrap() error { return e.Err }
