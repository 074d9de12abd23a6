package errors

import (
	"errors"
	"fmt"

	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest      ErrorCode = "BAD_REQUEST"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeTooManyRequest  ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeDomainViolation ErrorCode = "DOMAIN_VIOLATION"

	// 业务错误码
	CodeProjectNotFound ErrorCode = "PROJECT_NOT_FOUND"
	CodeOwnerNotFound   ErrorCode = "OWNER_NOT_FOUND"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError   { return New(CodeBadRequest, message) }
func NotFound(message string) *AppError     { return New(CodeNotFound, message) }
func Internal(message string) *AppError     { return New(CodeInternal, message) }
func Unauthorized(message string) *AppError { return New(CodeUnauthorized, message) }
func Forbidden(message string) *AppError    { return New(CodeForbidden, message) }
func Conflict(message string) *AppError     { return New(CodeConflict, message) }
func Validation(message string) *AppError   { return New(CodeValidation, message) }

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 将领域错误映射为应用错误
// 按 errors.Is 判断哨兵错误，不依赖错误消息文本；无法识别的错误一律视为内部错误
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := err.Error()
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return Wrap(err, CodeProjectNotFound, msg)
	case errors.Is(err, project.ErrOwnerNotFound):
		return Wrap(err, CodeOwnerNotFound, msg)
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, msg)
	case errors.Is(err, shared.ErrInvalidInput):
		return Wrap(err, CodeValidation, msg)
	case errors.Is(err, shared.ErrDomainViolation):
		return Wrap(err, CodeDomainViolation, msg)
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, msg)
	case errors.Is(err, shared.ErrUnauthorized):
		return Wrap(err, CodeUnauthorized, msg)
	case errors.Is(err, shared.ErrForbidden):
		return Wrap(err, CodeForbidden, msg)
	default:
		return Wrap(err, CodeInternal, msg)
	}
}
