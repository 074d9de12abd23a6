package memory

import (
	"context"
	"sync"

	"ddd-skeleton/domain/shared"
)

// UnitOfWork 内存存储没有回滚能力，只把 Execute 串行化
// 这样“先查后写”的用例在进程内不会互相穿插
type UnitOfWork struct {
	mu sync.Mutex
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(ctx)
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
