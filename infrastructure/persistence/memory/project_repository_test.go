package memory

import (
	"context"
	"testing"

	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"
	"ddd-skeleton/infrastructure/persistence/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepositoryContract(t *testing.T) {
	contract.Repository{
		Subject: func(testing.TB) project.Repository { return NewProjectRepository() },
	}.Test(t)
}

func TestProjectRepositoryHonoursCancelledContext(t *testing.T) {
	repo := NewProjectRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := project.NewProject(1, "ledger", shared.MustMoney(0, "CNY"))
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Save(ctx, p), context.Canceled)
	assert.Equal(t, 0, repo.Len())

	_, err = repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSpecifiedMemoryRepositoryLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewProjectRepository()
	repo := project.NewSpecifiedRepository(store, project.OwnersRequired())

	ownerless, err := project.NewProject(1, "draft", shared.MustMoney(0, "CNY"))
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Save(ctx, ownerless), shared.ErrDomainViolation)
	assert.Equal(t, 0, store.Len())

	_, err = store.FindByID(ctx, 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
