/*
Package project 定义项目领域错误。

所有错误同时支持两级 errors.Is() 判断:
  - 项目哨兵错误，如 errors.Is(err, ErrProjectNotFound)
  - 共享分类错误，如 errors.Is(err, shared.ErrNotFound)
*/
package project

import (
	"errors"
	"fmt"

	"ddd-skeleton/domain/shared"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidID       = errors.New("project id must be positive")
	ErrInvalidName     = errors.New("project name cannot be empty")
	ErrInvalidOwner    = errors.New("invalid owner email")
	ErrOwnerRequired   = errors.New("project must have at least one owner")
	ErrOwnerNotFound   = errors.New("owner not found")
)

func NewProjectNotFoundError(id int64) error {
	return &projectDomainError{
		sentinel: ErrProjectNotFound,
		kind:     shared.ErrNotFound,
		message:  fmt.Sprintf("project not found: %d", id),
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidIDError(id int64) error {
	return &projectDomainError{
		sentinel: ErrInvalidID,
		kind:     shared.ErrInvalidInput,
		field:    "id",
		message:  fmt.Sprintf("project id must be positive, got: %d", id),
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidNameError() error {
	return &projectDomainError{
		sentinel: ErrInvalidName,
		kind:     shared.ErrInvalidInput,
		field:    "name",
		message:  "project name cannot be empty",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidOwnerError(email string) error {
	return &projectDomainError{
		sentinel: ErrInvalidOwner,
		kind:     shared.ErrInvalidInput,
		field:    "owners",
		message:  "invalid owner email: " + email,
		stack:    shared.CaptureStack(3),
	}
}

func NewOwnerNotFoundError(email string) error {
	return &projectDomainError{
		sentinel: ErrOwnerNotFound,
		kind:     shared.ErrNotFound,
		field:    "owners",
		message:  "owner not found: " + email,
		stack:    shared.CaptureStack(3),
	}
}

// projectDomainError 项目领域错误（带堆栈）
// Unwrap 返回两个错误，errors.Is 可以命中项目哨兵或共享分类
type projectDomainError struct {
	sentinel error
	kind     error
	field    string
	message  string
	stack    []uintptr
}

func (e *projectDomainError) Error() string   { return e.message }
func (e *projectDomainError) Unwrap() []error { return []error{e.sentinel, e.kind} }
func (e *projectDomainError) Stack() []string { return shared.FormatStack(e.stack) }
