package errors

import (
	"errors"
	"fmt"
)

// ErrorWrapper attaches module and operation context to errors.
type ErrorWrapper struct {
	module    string
	operation string
}

// NewWrapper creates a new error wrapper with module and operation context,
// e.g. NewWrapper("telegram", "edit_message").
func NewWrapper(module, operation string) *ErrorWrapper {
	return &ErrorWrapper{
		module:    module,
		operation: operation,
	}
}

// Wrap wraps an error with a user-facing message.
// Returns nil if err is nil.
func (w *ErrorWrapper) Wrap(err error, userMessage string) error {
	if err == nil {
		return nil
	}
	return &WrappedError{
		Module:      w.module,
		Operation:   w.operation,
		Cause:       err,
		UserMessage: userMessage,
	}
}

// WrappedError carries internal details for logs and a short message that
// is safe to show in a chat.
type WrappedError struct {
	Module      string // e.g. "telegram", "line"
	Operation   string // e.g. "send_message", "reply"
	Cause       error
	UserMessage string
}

func (e *WrappedError) Error() string {
	return fmt.Sprintf("[%s:%s] %s: %v", e.Module, e.Operation, e.UserMessage, e.Cause)
}

func (e *WrappedError) Unwrap() error {
	return e.Cause
}

// GetUserMessage returns the user-facing message of the outermost
// WrappedError in the chain, or err.Error() when there is none.
func GetUserMessage(err error) string {
	if err == nil {
		return ""
	}
	var wrapped *WrappedError
	if errors.As(err, &wrapped) {
		return wrapped.UserMessage
	}
	return err.Error()
}
