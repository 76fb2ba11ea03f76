package errs

import (
	"errors"
	"fmt"
)

// Application error codes. They are transport-agnostic; the http package maps
// each one to a status code and the error_type field of an error payload.
const (
	ECONFLICT     = "conflict"
	EFORBIDDEN    = "forbidden"
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	EUNAUTHORIZED = "unauthorized"
)

// Error represents an application-specific error. Its Message is safe to show to a client.
// Any error that is not an *Error is treated as an internal fault and never shown as is.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Its text shows up in logs, never in responses.
func (e *Error) Error() string {
	return fmt.Sprintf("error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Is reports whether err carries the given application error code.
func Is(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}

// Messages used by more than one service.
const (
	MsgUserNotFound    = "User not found."
	MsgTweetNotFound   = "Tweet not found."
	MsgMediaNotFound   = "one or more media ids not found"
	MsgAlreadyLiked    = "already liked"
	MsgAlreadyFollowed = "already following"
)

// UserIdInvalid is returned when an operation is attempted on behalf of a user without a valid ID.
var UserIdInvalid = Errorf(EINVALID, "User ID is invalid.")

// IdInvalid is returned when a record ID is not a positive number.
var IdInvalid = Errorf(EINVALID, "ID is invalid.")
