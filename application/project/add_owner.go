package project

import (
	"context"
	"fmt"

	"ddd-skeleton/application/auth"
	"ddd-skeleton/domain/notification"
	"ddd-skeleton/domain/project"
	"ddd-skeleton/pkg/logger"

	"go.uber.org/zap"
)

// AddOwner 现有负责人把新负责人加入项目
// 认证能力通过具名字段 guard 组合进来，并由下方的转发方法暴露
type AddOwner struct {
	repo     project.Repository
	notifier notification.Notifier
	guard    auth.Guard
}

func NewAddOwner(repo project.Repository, notifier notification.Notifier, authenticator auth.Authenticator) *AddOwner {
	return &AddOwner{
		repo:     repo,
		notifier: notifier,
		guard:    auth.NewGuard(authenticator),
	}
}

// Authenticate forwards to the composed guard
func (uc *AddOwner) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	return uc.guard.Authenticate(ctx, token)
}

// RequireOwner forwards to the composed guard
func (uc *AddOwner) RequireOwner(ctx context.Context, token string, p *project.Project) (auth.Principal, error) {
	return uc.guard.RequireOwner(ctx, token, p)
}

// Execute 新负责人已存在时不保存也不通知，直接返回当前状态
func (uc *AddOwner) Execute(ctx context.Context, req AddOwnerRequest) (*ProjectResponse, error) {
	if _, err := uc.Authenticate(ctx, req.Token); err != nil {
		return nil, err
	}

	owner, err := project.NewOwner(req.Email)
	if err != nil {
		return nil, err
	}

	p, err := findProject(ctx, uc.repo, req.ProjectID)
	if err != nil {
		return nil, err
	}

	principal, err := uc.RequireOwner(ctx, req.Token, p)
	if err != nil {
		return nil, err
	}

	if !p.AddOwner(owner) {
		return toProjectResponse(p), nil
	}
	if err := uc.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Project owner added",
		logger.ProjectID(p.ID()),
		zap.String("owner", owner.Value()),
		zap.String("added_by", principal.Email),
	)

	msg := fmt.Sprintf("%s added you as an owner of project %q", principal.Email, p.Name())
	if err := uc.notifier.Send(ctx, owner.Value(), msg); err != nil {
		return toProjectResponse(p), fmt.Errorf("owner added to project %d but notification failed: %w", p.ID(), err)
	}
	return toProjectResponse(p), nil
}
