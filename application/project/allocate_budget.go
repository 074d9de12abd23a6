package project

import (
	"context"

	"ddd-skeleton/application/auth"
	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"
	"ddd-skeleton/pkg/logger"

	"go.uber.org/zap"
)

// AllocateBudget 负责人为项目追加预算
type AllocateBudget struct {
	repo  project.Repository
	money shared.MoneyFactory
	guard auth.Guard
}

func NewAllocateBudget(repo project.Repository, money shared.MoneyFactory, authenticator auth.Authenticator) *AllocateBudget {
	return &AllocateBudget{
		repo:  repo,
		money: money,
		guard: auth.NewGuard(authenticator),
	}
}

// Authenticate forwards to the composed guard
func (uc *AllocateBudget) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	return uc.guard.Authenticate(ctx, token)
}

// RequireOwner forwards to the composed guard
func (uc *AllocateBudget) RequireOwner(ctx context.Context, token string, p *project.Project) (auth.Principal, error) {
	return uc.guard.RequireOwner(ctx, token, p)
}

func (uc *AllocateBudget) Execute(ctx context.Context, req AllocateBudgetRequest) (*ProjectResponse, error) {
	if _, err := uc.Authenticate(ctx, req.Token); err != nil {
		return nil, err
	}

	amount, err := uc.money.Make(req.Amount)
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

	if err := p.Allocate(amount); err != nil {
		return nil, err
	}
	// 工厂的上限同样约束累计预算
	if _, err := uc.money.Make(p.Budget().Amount()); err != nil {
		return nil, err
	}

	if err := uc.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Project budget allocated",
		logger.ProjectID(p.ID()),
		zap.String("amount", amount.String()),
		zap.String("budget", p.Budget().String()),
		zap.String("allocated_by", principal.Email),
	)
	return toProjectResponse(p), nil
}
