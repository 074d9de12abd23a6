package postgres

import (
	"context"

	"ddd-skeleton/domain/shared"
	"ddd-skeleton/infrastructure/persistence/retry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txKey struct{}

func txFromContext(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// UnitOfWork runs fn in one SERIALIZABLE transaction.
// Postgres does not lock a missing row, so a concurrent "check then insert"
// surfaces as a serialization failure (40001) that the retry loop reruns.
type UnitOfWork struct {
	pool        *pgxpool.Pool
	retryConfig retry.Config
}

// fn 返回的冲突是业务结果（例如项目已存在），只有序列化失败和死锁会重跑
func NewUnitOfWork(pg *Postgres, retryConfig retry.Config) *UnitOfWork {
	retryConfig.RetryOnConflict = false
	return &UnitOfWork{pool: pg.Pool, retryConfig: retryConfig}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.ExecuteWithRetry(ctx, u.retryConfig, func(ctx context.Context) error {
		return pgx.BeginTxFunc(ctx, u.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
	})
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
