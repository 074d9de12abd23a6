package memory

import (
	"context"
	"sort"
	"sync"

	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"
)

// ProjectRepository 项目仓储的内存实现
// 保存和读取都使用副本，调用方修改实体不会影响已存储的状态
type ProjectRepository struct {
	projects map[int64]*project.Project
	mu       sync.RWMutex
}

// NewProjectRepository 创建内存项目仓储
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{
		projects: make(map[int64]*project.Project),
	}
}

func (r *ProjectRepository) Save(ctx context.Context, p *project.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.projects[p.ID()] = p.Clone()
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.projects[id]
	if !exists {
		return nil, project.NewProjectNotFoundError(id)
	}
	return p.Clone(), nil
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]*project.Project, error) {
	return r.FindBySpecification(ctx, nil)
}

// FindBySpecification 按规约过滤，spec 为 nil 时返回全部
func (r *ProjectRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*project.Project]) ([]*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*project.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if spec == nil || spec.IsSatisfiedBy(ctx, p) {
			result = append(result, p.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result, nil
}

// Len 当前存储的项目数量
func (r *ProjectRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.projects)
}

var _ project.Repository = (*ProjectRepository)(nil)
