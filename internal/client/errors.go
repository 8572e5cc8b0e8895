package client

import (
	"errors"
	"fmt"
)

// Error codes the API reports in extensions.code
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
)

// NetworkError is returned when the API server could not be reached or
// answered with a non-2xx status. It never means "no posts".
type NetworkError struct {
	Err        error
	URL        string
	StatusCode int
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("network error: %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("network error: %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// OperationError is a GraphQL error reported by the server for a request that
// reached it, e.g. a validation failure or unavailable storage.
type OperationError struct {
	Message string
	// Code is extensions.code, e.g. VALIDATION_ERROR or STORAGE_UNAVAILABLE
	Code string
	// Field is set for validation errors
	Field string
}

func (e *OperationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// IsNetworkError checks if err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsOperationError checks if err was reported by the GraphQL server
func IsOperationError(err error) bool {
	var opErr *OperationError
	return errors.As(err, &opErr)
}
