package shared

import (
	"context"
)

// Specification defines the interface for domain specifications
// A specification encapsulates a business rule as a standalone predicate.
// It is used both for querying (FindBySpecification) and, through Require,
// for enforcing invariants at the persistence boundary.
type Specification[T any] interface {
	IsSatisfiedBy(ctx context.Context, entity T) bool
}

// ============================================================================
// Composite Specifications
// ============================================================================

// AndSpecification represents the logical AND of two specifications
type AndSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

func (spec AndSpecification[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return spec.Left.IsSatisfiedBy(ctx, entity) && spec.Right.IsSatisfiedBy(ctx, entity)
}

// And creates a new AndSpecification
func And[T any](left, right Specification[T]) Specification[T] {
	return AndSpecification[T]{Left: left, Right: right}
}

// OrSpecification represents the logical OR of two specifications
type OrSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

func (spec OrSpecification[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return spec.Left.IsSatisfiedBy(ctx, entity) || spec.Right.IsSatisfiedBy(ctx, entity)
}

// Or creates a new OrSpecification
func Or[T any](left, right Specification[T]) Specification[T] {
	return OrSpecification[T]{Left: left, Right: right}
}

// NotSpecification represents the logical NOT of a specification
type NotSpecification[T any] struct {
	Spec Specification[T]
}

func (spec NotSpecification[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return !spec.Spec.IsSatisfiedBy(ctx, entity)
}

// Not creates a new NotSpecification
func Not[T any](inner Specification[T]) Specification[T] {
	return NotSpecification[T]{Spec: inner}
}

// ============================================================================
// Invariants
// ============================================================================

// Invariant is a specification that reports why it failed.
// Check returns nil when the entity satisfies the rule, otherwise an error
// wrapping ErrDomainViolation.
type Invariant[T any] interface {
	Name() string
	Check(ctx context.Context, entity T) error
}

// RequiredSpecification adapts a Specification into an Invariant.
type RequiredSpecification[T any] struct {
	Rule    string
	Entity  string
	Message string
	Spec    Specification[T]
}

// Require builds an invariant that fails with message whenever spec is not satisfied.
func Require[T any](entity, rule string, spec Specification[T], message string) Invariant[T] {
	return RequiredSpecification[T]{Rule: rule, Entity: entity, Message: message, Spec: spec}
}

func (r RequiredSpecification[T]) Name() string {
	return r.Rule
}

func (r RequiredSpecification[T]) Check(ctx context.Context, entity T) error {
	if r.Spec.IsSatisfiedBy(ctx, entity) {
		return nil
	}
	return &DomainError{
		Err:     ErrDomainViolation,
		Entity:  r.Entity,
		Rule:    r.Rule,
		Message: r.Message,
		stack:   CaptureStack(3),
	}
}

// CheckAll evaluates invariants in order and returns the first failure.
func CheckAll[T any](ctx context.Context, entity T, invariants ...Invariant[T]) error {
	for _, inv := range invariants {
		if err := inv.Check(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}
