package qbank

import (
	"errors"
	"fmt"
)

// Application error codes. These map domain failures to transport
// concerns (HTTP status codes, CLI exit codes) at the edges.
const (
	ECONFLICT = "conflict"  // uniqueness or range violation
	ECAPACITY = "capacity"  // category number range exhausted
	EINVALID  = "invalid"   // validation failed
	ENOTFOUND = "not_found" // entity does not exist
	EINTERNAL = "internal"  // internal error
)

// Error represents an application error with a machine-readable code
// and a human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description safe to show to users.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("qbank error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode returns the code of the error, if it is an *Error.
// Returns EINTERNAL for non-application errors and "" for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the error, if it is an *Error.
// Returns a generic message for non-application errors and "" for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf returns an *Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
