package shared

import (
	"fmt"
	"regexp"
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Money 值对象 - 表示金额
// 字段私有且只能通过 NewMoney 创建，所有"修改"操作都返回新的 Money。
// Money 按值传递，赋值即得到独立副本，不存在别名问题。
type Money struct {
	amount   int64  // 以最小货币单位存储（如分），永远 >= 0
	currency string // ISO 4217 货币代码（如 CNY, USD）
}

// NewMoney 创建新的Money值对象
// amount < 0 或货币代码非法时返回校验错误，且不返回可用的值
func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, NewValidationError("money", "amount", fmt.Sprintf("amount must not be negative, got: %d", amount))
	}
	if !currencyRegex.MatchString(currency) {
		return Money{}, NewValidationError("money", "currency", "invalid currency code: "+currency)
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustMoney 仅用于测试和常量初始化，校验失败时 panic
func MustMoney(amount int64, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount 获取金额数量
func (m Money) Amount() int64 {
	return m.amount
}

// Currency 获取货币类型
func (m Money) Currency() string {
	return m.currency
}

// IsZero 金额是否为零（零值 Money 也视为零）
func (m Money) IsZero() bool {
	return m.amount == 0
}

// Add 金额相加，返回新的Money值对象，两个操作数均不变
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, NewValidationError("money", "currency", "cannot add money with different currencies")
	}
	sum := m.amount + other.amount
	if sum < m.amount {
		return Money{}, NewValidationError("money", "amount", "amount overflow")
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// Subtract 金额相减，返回新的Money值对象
// 结果为负时返回校验错误，保证 Money 非负的不变量
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, NewValidationError("money", "currency", "cannot subtract money with different currencies")
	}
	if other.amount > m.amount {
		return Money{}, NewValidationError("money", "amount", "insufficient amount")
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// IsGreaterThan 比较金额是否大于另一个金额
func (m Money) IsGreaterThan(other Money) bool {
	return m.amount > other.amount
}

// IsGreaterThanOrEqual 比较金额是否大于或等于另一个金额
func (m Money) IsGreaterThanOrEqual(other Money) bool {
	return m.amount >= other.amount
}

// Equals 比较两个Money值对象是否相等
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.amount/100, m.amount%100, m.currency)
}
