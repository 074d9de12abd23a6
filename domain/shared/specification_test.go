package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type positiveSpec struct{}

func (positiveSpec) IsSatisfiedBy(_ context.Context, n int) bool { return n > 0 }

type evenSpec struct{}

func (evenSpec) IsSatisfiedBy(_ context.Context, n int) bool { return n%2 == 0 }

func TestCompositeSpecifications(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name string
		spec Specification[int]
		in   int
		want bool
	}{
		{"and both", And[int](positiveSpec{}, evenSpec{}), 4, true},
		{"and one", And[int](positiveSpec{}, evenSpec{}), 3, false},
		{"or one", Or[int](positiveSpec{}, evenSpec{}), -2, true},
		{"or none", Or[int](positiveSpec{}, evenSpec{}), -3, false},
		{"not", Not[int](positiveSpec{}), -1, true},
		{"not satisfied", Not[int](positiveSpec{}), 1, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.spec.IsSatisfiedBy(ctx, tc.in))
		})
	}
}

func TestRequire(t *testing.T) {
	ctx := context.Background()
	inv := Require[int]("number", "number.positive", positiveSpec{}, "number must be positive")

	assert.Equal(t, "number.positive", inv.Name())
	assert.NoError(t, inv.Check(ctx, 1))

	err := inv.Check(ctx, -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDomainViolation))

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "number.positive", domainErr.Rule)
	assert.Equal(t, "number must be positive", domainErr.Error())
}

func TestCheckAllReturnsFirstFailure(t *testing.T) {
	ctx := context.Background()
	positive := Require[int]("number", "positive", positiveSpec{}, "positive")
	even := Require[int]("number", "even", evenSpec{}, "even")

	assert.NoError(t, CheckAll(ctx, 2, positive, even))
	assert.NoError(t, CheckAll[int](ctx, -1))

	var domainErr *DomainError
	require.True(t, errors.As(CheckAll(ctx, -1, positive, even), &domainErr))
	assert.Equal(t, "positive", domainErr.Rule)

	require.True(t, errors.As(CheckAll(ctx, 3, positive, even), &domainErr))
	assert.Equal(t, "even", domainErr.Rule)
}
