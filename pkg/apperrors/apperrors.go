package apperrors

import (
	"errors"
	"fmt"
)

// AppError is the error type returned by service-level code. The Code lets the
// HTTP layer map errors to status codes and lets clients distinguish the
// capability-denied outcomes from transport failures.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Constructors
func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func InvalidArg(msg string) error {
	return New(CodeInvalidArgument, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func Unauthorized(msg string) error {
	return New(CodeUnauthenticated, msg)
}

func Internal(msg string) error {
	return New(CodeInternal, msg)
}

func PaymentRequired(msg string) error {
	return New(CodePaymentRequired, msg)
}

func SessionCompleted(msg string) error {
	return New(CodeSessionCompleted, msg)
}

func SessionCancelled(msg string) error {
	return New(CodeSessionCancelled, msg)
}

// CodeOf returns the Code of err if it is an AppError, CodeUnknown otherwise.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}
