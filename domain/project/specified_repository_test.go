package project

import (
	"context"
	"errors"
	"sort"
	"testing"

	"ddd-skeleton/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepository is a bare delegate whose state the tests inspect directly.
type stubRepository struct {
	stored    map[int64]*Project
	saveCalls int
	err       error
}

func newStubRepository() *stubRepository {
	return &stubRepository{stored: make(map[int64]*Project)}
}

func (r *stubRepository) Save(_ context.Context, p *Project) error {
	r.saveCalls++
	if r.err != nil {
		return r.err
	}
	r.stored[p.ID()] = p.Clone()
	return nil
}

func (r *stubRepository) FindByID(_ context.Context, id int64) (*Project, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.stored[id]
	if !ok {
		return nil, NewProjectNotFoundError(id)
	}
	return p.Clone(), nil
}

func (r *stubRepository) FindAll(ctx context.Context) ([]*Project, error) {
	return r.FindBySpecification(ctx, nil)
}

func (r *stubRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*Project]) ([]*Project, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*Project, 0)
	for _, p := range r.stored {
		if spec == nil || spec.IsSatisfiedBy(ctx, p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func TestSpecifiedRepositoryRejectsViolatingSave(t *testing.T) {
	ctx := context.Background()
	delegate := newStubRepository()
	repo := NewSpecifiedRepository(delegate, OwnersRequired())

	ownerless, err := NewProject(1, "draft", shared.MustMoney(0, "CNY"))
	require.NoError(t, err)

	err = repo.Save(ctx, ownerless)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrDomainViolation)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, RuleOwnersRequired, domainErr.Rule)

	assert.Equal(t, 0, delegate.saveCalls, "delegate must not be invoked")
	assert.Empty(t, delegate.stored, "delegate store must be unchanged")
}

func TestSpecifiedRepositorySavesValidProject(t *testing.T) {
	ctx := context.Background()
	delegate := newStubRepository()
	repo := NewSpecifiedRepository(delegate, OwnersRequired(), BudgetCurrency("CNY"))

	p, err := NewProject(1, "ledger", shared.MustMoney(10, "CNY"), mustOwner(t, "a@example.com"))
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, p))
	require.Contains(t, delegate.stored, int64(1))
	assert.True(t, delegate.stored[1].Equals(p), "the entity itself is passed to the delegate")

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found.Equals(p))
	assert.Len(t, repo.Invariants(), 2)
}

func TestSpecifiedRepositoryFlagsViolationOnRead(t *testing.T) {
	ctx := context.Background()
	delegate := newStubRepository()
	repo := NewSpecifiedRepository(delegate, OwnersRequired())

	legacy, err := NewProject(5, "legacy", shared.MustMoney(0, "CNY"))
	require.NoError(t, err)
	delegate.stored[5] = legacy

	found, err := repo.FindByID(ctx, 5)
	assert.Nil(t, found)
	assert.ErrorIs(t, err, shared.ErrDomainViolation)

	all, err := repo.FindAll(ctx)
	assert.Nil(t, all)
	assert.ErrorIs(t, err, shared.ErrDomainViolation)

	matched, err := repo.FindBySpecification(ctx, NewByNameSpecification("legacy"))
	assert.Nil(t, matched)
	assert.ErrorIs(t, err, shared.ErrDomainViolation)
}

func TestSpecifiedRepositoryPassesDelegateErrorsThrough(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	delegate := newStubRepository()
	repo := NewSpecifiedRepository(delegate, OwnersRequired())

	_, err := repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	delegate.err = boom
	p, err := NewProject(1, "ledger", shared.MustMoney(0, "CNY"), mustOwner(t, "a@example.com"))
	require.NoError(t, err)

	assert.Same(t, boom, repo.Save(ctx, p))
	_, err = repo.FindByID(ctx, 1)
	assert.Same(t, boom, err)
	_, err = repo.FindAll(ctx)
	assert.Same(t, boom, err)
}

func TestSpecifiedRepositoryEmptyResults(t *testing.T) {
	repo := NewSpecifiedRepository(newStubRepository(), OwnersRequired())

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}
