package project

import (
	"context"
	"errors"
	"fmt"

	"ddd-skeleton/domain/notification"
	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"
	"ddd-skeleton/pkg/logger"

	"go.uber.org/zap"
)

// CreateProject 创建项目并通知每位负责人
type CreateProject struct {
	repo     project.Repository
	money    shared.MoneyFactory
	notifier notification.Notifier
	uow      shared.UnitOfWork
}

func NewCreateProject(repo project.Repository, money shared.MoneyFactory, notifier notification.Notifier, uow shared.UnitOfWork) *CreateProject {
	return &CreateProject{repo: repo, money: money, notifier: notifier, uow: uow}
}

// Execute 已存在的标识返回冲突错误，不会覆盖
// 存在性检查和保存在同一个工作单元内；通知在提交之后发送，
// 通知失败会返回错误，但项目已经保存
func (uc *CreateProject) Execute(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	budget, err := uc.money.Make(req.Budget)
	if err != nil {
		return nil, err
	}

	owners := make([]project.Owner, 0, len(req.Owners))
	for _, email := range req.Owners {
		o, err := project.NewOwner(email)
		if err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}

	p, err := project.NewProject(req.ID, req.Name, budget, owners...)
	if err != nil {
		return nil, err
	}

	err = uc.uow.Execute(ctx, func(ctx context.Context) error {
		existing, err := uc.repo.FindByID(ctx, p.ID())
		switch {
		case err == nil && existing != nil:
			return shared.NewConflictError("project", fmt.Sprintf("project %d already exists", p.ID()))
		case err != nil && !errors.Is(err, shared.ErrNotFound):
			return err
		}
		return uc.repo.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Project created",
		logger.ProjectID(p.ID()),
		zap.Strings("owners", p.OwnerEmails()),
	)

	for _, o := range p.Owners() {
		msg := fmt.Sprintf("You are an owner of project %q (budget %s)", p.Name(), p.Budget())
		if err := uc.notifier.Send(ctx, o.Value(), msg); err != nil {
			return toProjectResponse(p), fmt.Errorf("project %d saved but notifying %s failed: %w", p.ID(), o.Value(), err)
		}
	}

	return toProjectResponse(p), nil
}
