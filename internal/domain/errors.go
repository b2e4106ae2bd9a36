package domain

import (
	"errors"
	"net/http"
)

// ErrorCode is a stable, wire-visible failure category.
type ErrorCode string

const (
	// CodeBadRequest signals a caller input defect.
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	// CodeAIError signals local generation misconfiguration or unusable provider output.
	CodeAIError ErrorCode = "AI_ERROR"
	// CodeAIUpstreamError signals a generation provider failure.
	CodeAIUpstreamError ErrorCode = "AI_UPSTREAM_ERROR"
	// CodeInternalError signals an unanticipated failure.
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// HTTPStatus maps an error code to its transport status.
// This table and Classify are the single source of truth for both the
// error envelope and the run record's error_code column.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeAIUpstreamError:
		return http.StatusBadGateway
	case CodeAIError, CodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure: a stable code, a human-readable message,
// and optional structured details. The wrapped cause stays server-side.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.cause }

// NewError creates a classified error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithDetails attaches structured details (e.g. the offending field).
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithCause records the underlying error without exposing it to callers.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// Classify maps any failure to its classified form. Already-classified
// errors pass through unchanged; everything else becomes INTERNAL_ERROR
// with a fixed generic message so internal text never leaks.
func Classify(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return NewError(CodeInternalError, "Unexpected server error").WithCause(err)
}
