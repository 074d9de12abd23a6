package shared

import "fmt"

// MoneyFactory 生产 Money 值对象的能力接口
// 任何实现 Make 的类型都可以注入到需要工厂的地方，调用方只依赖这个接口
type MoneyFactory interface {
	Make(amount int64) (Money, error)
}

// CurrencyFactory 固定币种的 Money 工厂
type CurrencyFactory struct {
	Currency string
}

// NewCurrencyFactory 创建固定币种的工厂
func NewCurrencyFactory(currency string) CurrencyFactory {
	return CurrencyFactory{Currency: currency}
}

func (f CurrencyFactory) Make(amount int64) (Money, error) {
	return NewMoney(amount, f.Currency)
}

// CappedFactory 带上限的 Money 工厂，超过 Max 时返回校验错误
type CappedFactory struct {
	Currency string
	Max      int64
}

// NewCappedFactory 创建带上限的工厂
func NewCappedFactory(currency string, max int64) CappedFactory {
	return CappedFactory{Currency: currency, Max: max}
}

func (f CappedFactory) Make(amount int64) (Money, error) {
	if amount > f.Max {
		return Money{}, NewValidationError("money", "amount", fmt.Sprintf("amount %d exceeds cap %d", amount, f.Max))
	}
	return NewMoney(amount, f.Currency)
}

var (
	_ MoneyFactory = CurrencyFactory{}
	_ MoneyFactory = CappedFactory{}
)
