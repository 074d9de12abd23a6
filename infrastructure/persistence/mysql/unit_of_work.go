package mysql

import (
	"context"
	"fmt"

	"ddd-skeleton/domain/shared"
	"ddd-skeleton/infrastructure/persistence"
	"ddd-skeleton/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWork runs several repository calls inside one GORM transaction
// Repositories pick the transaction up from the context, so a Save made inside
// Execute joins the surrounding transaction instead of opening its own.
type UnitOfWork struct {
	db          *gorm.DB
	retryConfig retry.Config
}

// NewUnitOfWork creates a new UnitOfWork instance
// A conflict returned by fn is a business outcome, so only deadlocks and lock
// timeouts rerun it.
func NewUnitOfWork(db *gorm.DB, retryConfig retry.Config) *UnitOfWork {
	retryConfig.RetryOnConflict = false
	return &UnitOfWork{
		db:          db,
		retryConfig: retryConfig,
	}
}

// Execute commits when fn succeeds and rolls back otherwise
// A retryable failure (deadlock, lock timeout) reruns fn from the start.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	executeOnce := func(ctx context.Context) error {
		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}

		if err := fn(persistence.ContextWithTx(ctx, tx)); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	return retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
