package common

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error codes carried by AppError.
const (
	CodeDocumentUnreadable = "DOCUMENT_UNREADABLE"
	CodeStoreFailed        = "STORE_FAILED"
	CodeTimeout            = "TIMEOUT"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeConfig             = "CONFIG_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnreadable   = errors.New("document unreadable")
	ErrDatabase     = errors.New("database error")
	ErrTimeout      = errors.New("timed out")
)

// NewAppError builds an AppError.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Unreadable marks a document the layout collaborator could not open or decode.
func Unreadable(path string, cause error) *AppError {
	return NewAppError(CodeDocumentUnreadable, path, errors.Join(ErrUnreadable, cause))
}

// StoreFailed marks a failed write; the transaction has been rolled back.
func StoreFailed(message string, cause error) *AppError {
	return NewAppError(CodeStoreFailed, message, errors.Join(ErrDatabase, cause))
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Code returns the AppError code carried by err. Deadline overruns map to
// CodeTimeout even when they were never wrapped in an AppError.
func Code(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return CodeTimeout
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsTimeout reports whether err is a per-document timeout.
func IsTimeout(err error) bool {
	return Code(err) == CodeTimeout
}

// ToStatus converts err into a status error with a matching code.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch Code(err) {
	case CodeTimeout:
		return status.Error(codes.DeadlineExceeded, err.Error())
	case CodeDocumentUnreadable, CodeInvalidInput, CodeConfig:
		return status.Error(codes.InvalidArgument, err.Error())
	case CodeStoreFailed:
		return status.Error(codes.Unavailable, err.Error())
	case CodeNotFound:
		return status.Error(codes.NotFound, err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// StatusCode is the gRPC code ToStatus would assign to err.
func StatusCode(err error) codes.Code {
	return status.Code(ToStatus(err))
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func InvalidArgumentErrorf(format string, args ...any) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}
