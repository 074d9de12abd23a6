// Package contract holds the behaviour every project.Repository adapter must
// share. Adapter packages run it from their own tests.
package contract

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Repository runs the repository laws against Subject.
// Subject must return an empty repository; IDBase offsets the ids the suite
// uses so several runs can share one database.
type Repository struct {
	Subject func(testing.TB) project.Repository
	IDBase  int64
}

func (c Repository) Test(t *testing.T) {
	t.Run("save then find round-trips", c.testRoundTrip)
	t.Run("save overwrites by identity", c.testOverwrite)
	t.Run("find missing id returns not found", c.testNotFound)
	t.Run("empty query returns empty slice", c.testEmptyQuery)
	t.Run("specification filters", c.testSpecification)
	t.Run("stored copy is isolated from caller", c.testIsolation)
	t.Run("concurrent saves keep one entity per id", c.testConcurrentSaves)
}

func (c Repository) id(n int64) int64 { return c.IDBase + n }

func (c Repository) newProject(tb testing.TB, n int64, name string, owners ...string) *project.Project {
	tb.Helper()
	list := make([]project.Owner, 0, len(owners))
	for _, email := range owners {
		o, err := project.NewOwner(email)
		require.NoError(tb, err)
		list = append(list, o)
	}
	p, err := project.NewProject(c.id(n), name, shared.MustMoney(1000, "CNY"), list...)
	require.NoError(tb, err)
	return p
}

func (c Repository) testRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := c.Subject(t)
	p := c.newProject(t, 1, "ledger", "alice@example.com", "bob@example.com")

	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.True(t, found.Equals(p))
	assert.Equal(t, "ledger", found.Name())
	assert.True(t, found.Budget().Equals(p.Budget()))
	assert.ElementsMatch(t, p.OwnerEmails(), found.OwnerEmails())
}

func (c Repository) testOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := c.Subject(t)
	p := c.newProject(t, 2, "first", "alice@example.com")
	require.NoError(t, repo.Save(ctx, p))

	require.NoError(t, p.Rename("second"))
	require.NoError(t, p.Allocate(shared.MustMoney(5, "CNY")))
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "second", found.Name())
	assert.Equal(t, int64(1005), found.Budget().Amount())

	all, err := repo.FindBySpecification(ctx, project.NewByNameSpecification("first"))
	require.NoError(t, err)
	assert.Empty(t, all, "no stale copy under the old name")
}

func (c Repository) testNotFound(t *testing.T) {
	repo := c.Subject(t)

	found, err := repo.FindByID(context.Background(), c.id(999))
	assert.Nil(t, found)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}

func (c Repository) testEmptyQuery(t *testing.T) {
	repo := c.Subject(t)

	found, err := repo.FindBySpecification(context.Background(),
		project.NewByOwnerSpecification("nobody@example.com"))
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func (c Repository) testSpecification(t *testing.T) {
	ctx := context.Background()
	repo := c.Subject(t)
	require.NoError(t, repo.Save(ctx, c.newProject(t, 3, "alpha", "alice@example.com")))
	require.NoError(t, repo.Save(ctx, c.newProject(t, 4, "beta", "bob@example.com")))
	require.NoError(t, repo.Save(ctx, c.newProject(t, 5, "gamma", "alice@example.com", "bob@example.com")))

	found, err := repo.FindBySpecification(ctx, project.NewByOwnerSpecification("alice@example.com"))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, c.id(3), found[0].ID())
	assert.Equal(t, c.id(5), found[1].ID())

	both := shared.And(
		project.NewByOwnerSpecification("bob@example.com"),
		shared.Not(project.NewByNameSpecification("beta")),
	)
	found, err = repo.FindBySpecification(ctx, both)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "gamma", found[0].Name())
}

func (c Repository) testIsolation(t *testing.T) {
	ctx := context.Background()
	repo := c.Subject(t)
	p := c.newProject(t, 6, "stable", "alice@example.com")
	require.NoError(t, repo.Save(ctx, p))

	require.NoError(t, p.Rename("mutated"))

	found, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "stable", found.Name())
}

func (c Repository) testConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	repo := c.Subject(t)

	writers := make([]*project.Project, 20)
	for i := range writers {
		writers[i] = c.newProject(t, 7, fmt.Sprintf("writer-%d", i), "alice@example.com")
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(writers))
	for _, p := range writers {
		wg.Add(1)
		go func(p *project.Project) {
			defer wg.Done()
			errs <- repo.Save(ctx, p)
		}(p)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	found, err := repo.FindBySpecification(ctx, project.NewByOwnerSpecification("alice@example.com"))
	require.NoError(t, err)
	count := 0
	for _, p := range found {
		if p.ID() == c.id(7) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
