package project

import (
	"context"

	"ddd-skeleton/domain/project"
)

// ListOwnerProjects 列出某负责人名下的全部项目
type ListOwnerProjects struct {
	repo project.Repository
}

func NewListOwnerProjects(repo project.Repository) *ListOwnerProjects {
	return &ListOwnerProjects{repo: repo}
}

// Execute 没有项目时返回空切片
func (uc *ListOwnerProjects) Execute(ctx context.Context, email string) ([]*ProjectResponse, error) {
	owner, err := project.NewOwner(email)
	if err != nil {
		return nil, err
	}

	projects, err := uc.repo.FindBySpecification(ctx, project.NewByOwnerSpecification(owner.Value()))
	if err != nil {
		return nil, err
	}
	return toProjectResponses(projects), nil
}
