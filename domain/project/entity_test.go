package project

import (
	"context"
	"errors"
	"testing"

	"ddd-skeleton/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOwner(t *testing.T, email string) Owner {
	t.Helper()
	o, err := NewOwner(email)
	require.NoError(t, err)
	return o
}

func TestNewProjectValidation(t *testing.T) {
	budget := shared.MustMoney(0, "CNY")

	_, err := NewProject(0, "ledger", budget)
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewProject(1, "   ", budget)
	assert.ErrorIs(t, err, ErrInvalidName)

	p, err := NewProject(1, " ledger ", budget)
	require.NoError(t, err)
	assert.Equal(t, "ledger", p.Name())
	assert.Empty(t, p.Owners(), "zero owners is a storage rule, not a constructor rule")
}

func TestNewOwnerNormalises(t *testing.T) {
	o := mustOwner(t, "  Alice@Example.COM ")
	assert.Equal(t, "alice@example.com", o.Value())
	assert.True(t, o.Equals(mustOwner(t, "alice@example.com")))

	_, err := NewOwner("not-an-email")
	assert.ErrorIs(t, err, ErrInvalidOwner)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestProjectEqualityByIdentity(t *testing.T) {
	a, err := NewProject(7, "alpha", shared.MustMoney(10, "CNY"), mustOwner(t, "a@example.com"))
	require.NoError(t, err)
	b, err := NewProject(7, "beta", shared.MustMoney(99, "USD"))
	require.NoError(t, err)
	c, err := NewProject(8, "alpha", shared.MustMoney(10, "CNY"), mustOwner(t, "a@example.com"))
	require.NoError(t, err)

	assert.True(t, a.Equals(b), "same id, different fields")
	assert.False(t, a.Equals(c), "same fields, different id")
	assert.False(t, a.Equals(nil))
	assert.True(t, shared.SameIdentity[int64](a, b))
}

func TestProjectMutationsKeepIdentity(t *testing.T) {
	alice := mustOwner(t, "alice@example.com")
	p, err := NewProject(3, "ledger", shared.MustMoney(100, "CNY"))
	require.NoError(t, err)

	assert.True(t, p.AddOwner(alice))
	assert.False(t, p.AddOwner(alice), "adding the same owner twice is a no-op")
	require.NoError(t, p.Rename("ledger v2"))

	before := p.Budget()
	require.NoError(t, p.Allocate(shared.MustMoney(50, "CNY")))
	assert.True(t, before.Equals(shared.MustMoney(100, "CNY")))
	assert.True(t, p.Budget().Equals(shared.MustMoney(150, "CNY")))

	require.NoError(t, p.Spend(shared.MustMoney(150, "CNY")))
	assert.True(t, p.Budget().IsZero())
	assert.ErrorIs(t, p.Spend(shared.MustMoney(1, "CNY")), shared.ErrInvalidInput)

	require.NoError(t, p.RemoveOwner(alice))
	assert.ErrorIs(t, p.RemoveOwner(alice), ErrOwnerNotFound)

	assert.Equal(t, int64(3), p.ID())
	assert.Equal(t, 5, p.Version())
}

func TestOwnersReturnsCopy(t *testing.T) {
	p, err := NewProject(1, "ledger", shared.MustMoney(0, "CNY"), mustOwner(t, "a@example.com"))
	require.NoError(t, err)

	owners := p.Owners()
	owners[0] = mustOwner(t, "mallory@example.com")

	assert.Equal(t, []string{"a@example.com"}, p.OwnerEmails())
}

func TestCloneIsIndependent(t *testing.T) {
	p, err := NewProject(1, "ledger", shared.MustMoney(0, "CNY"), mustOwner(t, "a@example.com"))
	require.NoError(t, err)

	c := p.Clone()
	c.AddOwner(mustOwner(t, "b@example.com"))
	require.NoError(t, c.Rename("other"))

	assert.Equal(t, "ledger", p.Name())
	assert.Len(t, p.Owners(), 1)
	assert.True(t, p.Equals(c))
}

func TestDTORoundTrip(t *testing.T) {
	p, err := NewProject(9, "ledger", shared.MustMoney(1234, "USD"), mustOwner(t, "a@example.com"))
	require.NoError(t, err)

	rebuilt, err := RebuildFromDTO(p.ToDTO())
	require.NoError(t, err)

	assert.True(t, p.Equals(rebuilt))
	assert.Equal(t, p.Name(), rebuilt.Name())
	assert.True(t, p.Budget().Equals(rebuilt.Budget()))
	assert.Equal(t, p.OwnerEmails(), rebuilt.OwnerEmails())

	_, err = RebuildFromDTO(ReconstructionDTO{ID: 1, Name: "x", Amount: -1, Currency: "USD"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestSpecifications(t *testing.T) {
	ctx := context.Background()
	p, err := NewProject(1, "ledger", shared.MustMoney(500, "CNY"), mustOwner(t, "a@example.com"))
	require.NoError(t, err)
	empty, err := NewProject(2, "draft", shared.MustMoney(0, "CNY"))
	require.NoError(t, err)

	assert.True(t, NewHasOwnersSpecification().IsSatisfiedBy(ctx, p))
	assert.False(t, NewHasOwnersSpecification().IsSatisfiedBy(ctx, empty))
	assert.True(t, NewByOwnerSpecification("A@example.com").IsSatisfiedBy(ctx, p))
	assert.False(t, NewByOwnerSpecification("b@example.com").IsSatisfiedBy(ctx, p))
	assert.True(t, NewByNameSpecification("ledger").IsSatisfiedBy(ctx, p))
	assert.True(t, NewMinBudgetSpecification(500, "CNY").IsSatisfiedBy(ctx, p))
	assert.False(t, NewMinBudgetSpecification(501, "CNY").IsSatisfiedBy(ctx, p))
	assert.False(t, NewMinBudgetSpecification(1, "USD").IsSatisfiedBy(ctx, p))
	assert.True(t, NewMinBudgetSpecification(0, "CNY").IsSatisfiedBy(ctx, empty))
	assert.True(t, NewMinBudgetSpecification(-5, "CNY").IsSatisfiedBy(ctx, empty))
	assert.False(t, NewMinBudgetSpecification(1, "CNY").IsSatisfiedBy(ctx, empty))

	assert.NoError(t, OwnersRequired().Check(ctx, p))
	assert.ErrorIs(t, OwnersRequired().Check(ctx, empty), shared.ErrDomainViolation)
	assert.ErrorIs(t, BudgetCurrency("USD").Check(ctx, p), shared.ErrDomainViolation)
}
