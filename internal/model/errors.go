package model

import "fmt"

// 领域错误类型：服务层构造，控制器统一映射为 HTTP 状态码与业务码

// ValidationError 入参不合法（数字范围、重复、格式等）
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError 实体不存在（或已被软删除）
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.ID) }

func NewNotFound(kind, id string) error { return &NotFoundError{Kind: kind, ID: id} }

// ConflictError 唯一性冲突（邮箱占用、同回合重复参与等）
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

func NewConflict(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientFundsError 余额不足以覆盖本次扣款
type InsufficientFundsError struct {
	Need string
	Have string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %s, have %s", e.Need, e.Have)
}

// InvalidStateError 当前状态不允许该操作（无激活回合、重复审批等）
type InvalidStateError struct{ Msg string }

func (e *InvalidStateError) Error() string { return e.Msg }

func NewInvalidState(format string, args ...interface{}) error {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// CapacityError 可覆盖的未来回合数量不足
type CapacityError struct{ Msg string }

func (e *CapacityError) Error() string { return e.Msg }

func NewCapacity(format string, args ...interface{}) error {
	return &CapacityError{Msg: fmt.Sprintf(format, args...)}
}
