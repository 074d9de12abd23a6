package project

import (
	"context"

	"ddd-skeleton/domain/shared"
)

// SpecifiedRepository decorates a Repository with invariants.
//
// Every path into and out of the delegate goes through this type:
//   - Save rejects a violating project before the delegate is called
//   - reads flag a stored project that violates an invariant
//
// Delegate errors are returned unchanged.
type SpecifiedRepository struct {
	delegate   Repository
	invariants []shared.Invariant[*Project]
}

// NewSpecifiedRepository wraps delegate with the given invariants
func NewSpecifiedRepository(delegate Repository, invariants ...shared.Invariant[*Project]) *SpecifiedRepository {
	return &SpecifiedRepository{
		delegate:   delegate,
		invariants: invariants,
	}
}

func (r *SpecifiedRepository) Save(ctx context.Context, project *Project) error {
	if err := shared.CheckAll(ctx, project, r.invariants...); err != nil {
		return err
	}
	return r.delegate.Save(ctx, project)
}

func (r *SpecifiedRepository) FindByID(ctx context.Context, id int64) (*Project, error) {
	project, err := r.delegate.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := shared.CheckAll(ctx, project, r.invariants...); err != nil {
		return nil, err
	}
	return project, nil
}

func (r *SpecifiedRepository) FindAll(ctx context.Context) ([]*Project, error) {
	projects, err := r.delegate.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return r.checkEach(ctx, projects)
}

func (r *SpecifiedRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*Project]) ([]*Project, error) {
	projects, err := r.delegate.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	return r.checkEach(ctx, projects)
}

// Invariants returns the rules this repository enforces
func (r *SpecifiedRepository) Invariants() []shared.Invariant[*Project] {
	out := make([]shared.Invariant[*Project], len(r.invariants))
	copy(out, r.invariants)
	return out
}

func (r *SpecifiedRepository) checkEach(ctx context.Context, projects []*Project) ([]*Project, error) {
	for _, p := range projects {
		if err := shared.CheckAll(ctx, p, r.invariants...); err != nil {
			return nil, err
		}
	}
	if projects == nil {
		projects = []*Project{}
	}
	return projects, nil
}

var _ Repository = (*SpecifiedRepository)(nil)
