package service

import "fmt"

// ValidationError is malformed input or a business-rule violation. Its message
// is user facing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError means the referenced entity does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func notFound(message string) error {
	return &NotFoundError{Message: message}
}

// AuthError covers bad credentials and disabled accounts.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }
