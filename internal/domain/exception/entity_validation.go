package exception

import "errors"

// EntityValidationError is raised when an entity would be created or mutated
// into a shape that breaks one of its invariants. The message is the whole
// contract: "<Field> <constraint phrase>".
type EntityValidationError struct {
	Message string
}

func NewEntityValidation(message string) *EntityValidationError {
	return &EntityValidationError{Message: message}
}

func (e *EntityValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err (or anything it wraps) is an EntityValidationError.
func IsValidation(err error) bool {
	var target *EntityValidationError
	return errors.As(err, &target)
}
