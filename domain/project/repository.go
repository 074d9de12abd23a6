package project

import (
	"context"

	"ddd-skeleton/domain/shared"
)

// Repository Project repository interface
// Principles:
// 1. Method names and semantics say nothing about the storage technology
// 2. Every adapter (memory, mysql, postgres) and every decorator
//    (SpecifiedRepository) satisfies exactly this contract
// 3. Include context.Context to support timeout, cancellation and transaction
type Repository interface {
	// Save Save or overwrite the project stored under project.ID()
	// Exactly one project is stored per identity.
	Save(ctx context.Context, project *Project) error

	// FindByID Find project by ID
	// Returns an error matching ErrProjectNotFound and shared.ErrNotFound when absent.
	FindByID(ctx context.Context, id int64) (*Project, error)

	// FindAll Find every stored project, ordered by ID
	// Returns an empty, non-nil slice when nothing is stored.
	FindAll(ctx context.Context) ([]*Project, error)

	// FindBySpecification Find projects by specification, ordered by ID
	// Returns an empty, non-nil slice when nothing matches.
	FindBySpecification(ctx context.Context, spec shared.Specification[*Project]) ([]*Project, error)
}
