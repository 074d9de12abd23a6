/*
Package shared - 领域层共享错误定义

设计原则:
1. 领域层定义哨兵错误(sentinel errors)，用于 errors.Is() 类型安全判断
2. DomainError 在创建时捕获堆栈，但延迟格式化（按需打印）
3. 领域错误不包含 HTTP 状态码等传输层概念
4. 使用标准库 errors，不依赖第三方包

错误分类:
- ErrInvalidInput    值对象工厂校验失败（validation）
- ErrNotFound        按标识查找不到实体
- ErrDomainViolation 实体违反规约（写入被拒绝 / 读取被标记）
- 其余基础设施错误由适配器原样返回，不在此处定义
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// 哨兵错误 (Sentinel Errors)
// ============================================================================

var (
	// ErrNotFound 资源未找到
	ErrNotFound = errors.New("not found")

	// ErrConflict 资源冲突（如并发修改、唯一约束冲突）
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput 无效输入（值对象校验失败）
	ErrInvalidInput = errors.New("invalid input")

	// ErrDomainViolation 实体违反领域规约
	ErrDomainViolation = errors.New("domain rule violated")

	// ErrUnauthorized 未授权
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden 禁止访问（已授权但无权限）
	ErrForbidden = errors.New("forbidden")
)

// DomainError 领域错误 - 携带业务上下文和堆栈的结构化错误
type DomainError struct {
	// Err 底层哨兵错误，用于 errors.Is() 判断
	Err error

	// Entity 发生错误的实体名称（如 "project", "money"）
	Entity string

	// Message 人类可读的错误描述
	Message string

	// Field 可选：发生错误的字段名（用于校验错误）
	Field string

	// Rule 可选：被违反的规约名称（用于 ErrDomainViolation）
	Rule string

	// stack 调用栈帧，在创建时捕获，按需格式化
	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap 实现错误链，支持 errors.Is() 和 errors.As()
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack 按需格式化堆栈（只在打印日志时调用）
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack 捕获当前调用栈（导出供子领域包使用）
// skip: 跳过的帧数（通常为 3：Callers, CaptureStack, NewXxxError）
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 格式化堆栈帧为字符串切片，过滤 runtime 内部帧，最多返回 10 帧
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// ============================================================================
// 领域错误构造函数
// ============================================================================

// NewNotFoundError 创建"未找到"领域错误
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewConflictError 创建"冲突"领域错误
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError 创建"校验失败"领域错误
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewViolationError 创建"违反规约"领域错误
func NewViolationError(entity, rule, reason string) error {
	return &DomainError{
		Err:     ErrDomainViolation,
		Entity:  entity,
		Rule:    rule,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewUnauthorizedError 创建"未授权"领域错误
func NewUnauthorizedError(reason string) error {
	return &DomainError{
		Err:     ErrUnauthorized,
		Entity:  "principal",
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewForbiddenError 创建"禁止访问"领域错误
func NewForbiddenError(entity, reason string) error {
	return &DomainError{
		Err:     ErrForbidden,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// Stacker 可提供堆栈的错误接口，API 层用它统一提取堆栈
type Stacker interface {
	Stack() []string
}
