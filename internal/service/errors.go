package service

import (
	"errors"
	"fmt"
)

// Common service errors, checked with errors.Is by the API layer.
var (
	// ErrNilDependency is returned by constructors when a required
	// dependency is missing.
	ErrNilDependency = errors.New("required dependency is nil")
)

// ServiceError wraps errors from a service operation with context.
type ServiceError struct {
	// Service is the service that failed (e.g., "note", "task")
	Service string
	// Operation is the operation that failed (e.g., "process_note")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. It returns nil for a nil err
// and leaves an existing ServiceError unwrapped.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
