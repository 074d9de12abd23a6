package shared

import "context"

// UnitOfWork 管理事务边界
// fn 收到的 ctx 携带事务，仓储用这个 ctx 发起的调用都属于同一事务；
// fn 返回错误时整体回滚，实现可以在可重试的冲突后从头重新执行 fn
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
