package domain

import "fmt"

// NetworkError means the relay could not be reached at all.
type NetworkError struct {
	Addr string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("relay unreachable at %s: %v", e.Addr, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServiceError means the relay answered with a non-2xx status. Message is
// the text the relay reported in its error body.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("relay error (status %d): %s", e.Status, e.Message)
}
