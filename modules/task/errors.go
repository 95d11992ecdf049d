package task

import (
	"errors"

	domain "github.com/ManishCody/project-tracker/domain/task"
)

// ValidationError reports a rejected payload before it reaches the
// store. It is a client error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// toErrorInfo flattens a service error into its wire form.
func toErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return &ErrorInfo{Kind: ErrorKindValidation, Message: vErr.Message}
	}

	var sErr *domain.SchemaError
	if errors.As(err, &sErr) {
		return &ErrorInfo{Kind: ErrorKindSchema, Field: sErr.Field, Message: sErr.Message}
	}

	if errors.Is(err, domain.ErrNotFound) {
		return &ErrorInfo{Kind: ErrorKindNotFound, Message: "Task not found"}
	}

	return &ErrorInfo{Kind: ErrorKindInternal, Message: err.Error()}
}

// AsError converts the wire form back into a typed error on the
// consuming side of the bus.
func (e *ErrorInfo) AsError() error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ErrorKindValidation:
		return &ValidationError{Message: e.Message}
	case ErrorKindSchema:
		return &domain.SchemaError{Field: e.Field, Message: e.Message}
	case ErrorKindNotFound:
		return domain.ErrNotFound
	default:
		return errors.New(e.Message)
	}
}
