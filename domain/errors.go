package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeOverflow     ErrorCode = "OVERFLOW"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound         = NewError(ErrCodeNotFound, "user not found")
	ErrWorkspaceNotFound    = NewError(ErrCodeNotFound, "workspace not found")
	ErrMemberNotFound       = NewError(ErrCodeNotFound, "member not found")
	ErrInvitationNotFound   = NewError(ErrCodeNotFound, "invitation not found")
	ErrProjectNotFound      = NewError(ErrCodeNotFound, "project not found")
	ErrCategoryNotFound     = NewError(ErrCodeNotFound, "category not found")
	ErrTaskNotFound         = NewError(ErrCodeNotFound, "task not found")
	ErrRuleNotFound         = NewError(ErrCodeNotFound, "recurrence rule not found")
	ErrOccurrenceNotFound   = NewError(ErrCodeNotFound, "occurrence not found")
	ErrFileNotFound         = NewError(ErrCodeNotFound, "file not found")
	ErrNotificationNotFound = NewError(ErrCodeNotFound, "notification not found")
	ErrSessionNotFound      = NewError(ErrCodeNotFound, "session not found")
	ErrUnauthorized         = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrForbidden            = NewError(ErrCodeForbidden, "forbidden")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")
	ErrInvitationClosed     = NewError(ErrCodeConflict, "invitation expired or revoked")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
