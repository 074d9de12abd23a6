package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	testCases := []struct {
		name     string
		amount   int64
		currency string
		wantErr  bool
		field    string
	}{
		{"zero", 0, "CNY", false, ""},
		{"positive", 100, "USD", false, ""},
		{"negative amount", -1, "CNY", true, "amount"},
		{"lower case currency", 100, "cny", true, "currency"},
		{"empty currency", 100, "", true, "currency"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewMoney(tc.amount, tc.currency)
			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tc.amount, m.Amount())
				assert.Equal(t, tc.currency, m.Currency())
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, Money{}, m, "failed construction must not produce a usable value")

			var domainErr *DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tc.field, domainErr.Field)
			assert.NotEmpty(t, domainErr.Stack())
		})
	}
}

func TestMoneyEqualsIsStructural(t *testing.T) {
	a := MustMoney(100, "CNY")
	b := MustMoney(100, "CNY")

	assert.True(t, a.Equals(b))
	assert.True(t, a == b)
	assert.False(t, a.Equals(MustMoney(100, "USD")))
	assert.False(t, a.Equals(MustMoney(101, "CNY")))
}

func TestMoneyAddLeavesOperandsUnchanged(t *testing.T) {
	v1 := MustMoney(100, "CNY")
	fifty := MustMoney(50, "CNY")

	v2, err := v1.Add(fifty)
	require.NoError(t, err)

	assert.True(t, v1.Equals(MustMoney(100, "CNY")))
	assert.True(t, fifty.Equals(MustMoney(50, "CNY")))
	assert.True(t, v2.Equals(MustMoney(150, "CNY")))
}

func TestMoneyAddCurrencyMismatch(t *testing.T) {
	_, err := MustMoney(1, "CNY").Add(MustMoney(1, "USD"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMoneySubtract(t *testing.T) {
	v1 := MustMoney(100, "CNY")

	v2, err := v1.Subtract(MustMoney(30, "CNY"))
	require.NoError(t, err)
	assert.Equal(t, int64(70), v2.Amount())
	assert.Equal(t, int64(100), v1.Amount())

	_, err = v1.Subtract(MustMoney(101, "CNY"))
	assert.ErrorIs(t, err, ErrInvalidInput, "money never goes negative")
}

func TestMoneyComparison(t *testing.T) {
	hundred := MustMoney(100, "CNY")

	assert.True(t, hundred.IsGreaterThanOrEqual(MustMoney(100, "CNY")))
	assert.True(t, hundred.IsGreaterThanOrEqual(MustMoney(99, "CNY")))
	assert.False(t, hundred.IsGreaterThanOrEqual(MustMoney(101, "CNY")))
	assert.False(t, hundred.IsGreaterThan(MustMoney(100, "CNY")))
	assert.True(t, hundred.IsGreaterThan(MustMoney(99, "CNY")))
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "12.05 USD", MustMoney(1205, "USD").String())
}

func TestMustMoneyPanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() { MustMoney(-5, "CNY") })
}

func TestMoneyFactories(t *testing.T) {
	var f MoneyFactory = NewCurrencyFactory("EUR")
	m, err := f.Make(10)
	require.NoError(t, err)
	assert.Equal(t, "EUR", m.Currency())

	_, err = f.Make(-10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	f = NewCappedFactory("EUR", 1000)
	_, err = f.Make(1000)
	assert.NoError(t, err)
	_, err = f.Make(1001)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
