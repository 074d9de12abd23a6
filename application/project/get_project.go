/*
Package project 项目用例（Intent）

每个 Intent 都是一个结构体：
  - 构造函数显式接收全部依赖（接口类型），Intent 内部从不自行创建依赖
  - 只有一个 Execute 入口
  - 除依赖引用外不持有任何状态
*/
package project

import (
	"context"
	"errors"
	"fmt"

	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"
)

// GetProject 按标识查询项目
type GetProject struct {
	repo project.Repository
}

func NewGetProject(repo project.Repository) *GetProject {
	return &GetProject{repo: repo}
}

func (uc *GetProject) Execute(ctx context.Context, id int64) (*ProjectResponse, error) {
	p, err := findProject(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// findProject 统一未找到的结果：任何 not-found（包括仓储返回 nil, nil）
// 都转换为 project.ErrProjectNotFound
func findProject(ctx context.Context, repo project.Repository, id int64) (*project.Project, error) {
	if id <= 0 {
		return nil, project.NewInvalidIDError(id)
	}

	p, err := repo.FindByID(ctx, id)
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return nil, err
	case errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", project.NewProjectNotFoundError(id), err)
	case err != nil:
		return nil, err
	case p == nil:
		return nil, project.NewProjectNotFoundError(id)
	}
	return p, nil
}
