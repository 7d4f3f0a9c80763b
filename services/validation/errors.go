package validation

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a 404 from an upstream lookup, e.g. an unknown employee.
var ErrNotFound = errors.New("not found")

// ServiceError wraps any upstream failure that is not a definitive business
// answer: transport errors, unexpected status codes, malformed bodies and open
// circuit breakers. Callers use errors.As to distinguish it from ErrNotFound.
type ServiceError struct {
	Upstream string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Upstream, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func serviceErr(upstream string, format string, args ...any) error {
	return &ServiceError{Upstream: upstream, Err: fmt.Errorf(format, args...)}
}
