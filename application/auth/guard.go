/*
Package auth 应用层认证能力

Authenticator 是端口，由基础设施层提供实现；Guard 是可复用的能力，
需要认证的 Intent 以具名字段持有 Guard，并通过转发方法暴露它的行为。
*/
package auth

import (
	"context"
	"strings"

	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"
)

// Principal 已认证的调用方
type Principal struct {
	Email string
}

// Authenticator 把凭证解析为调用方身份
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}

// Guard 认证与授权检查
type Guard struct {
	authenticator Authenticator
}

func NewGuard(authenticator Authenticator) Guard {
	return Guard{authenticator: authenticator}
}

// Authenticate 空 token 直接拒绝，不调用 Authenticator
func (g Guard) Authenticate(ctx context.Context, token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, shared.NewUnauthorizedError("missing credentials")
	}
	if g.authenticator == nil {
		return Principal{}, shared.NewUnauthorizedError("authentication is not configured")
	}
	return g.authenticator.Authenticate(ctx, token)
}

// RequireOwner 认证并要求调用方是项目负责人
func (g Guard) RequireOwner(ctx context.Context, token string, p *project.Project) (Principal, error) {
	principal, err := g.Authenticate(ctx, token)
	if err != nil {
		return Principal{}, err
	}

	owner, err := project.NewOwner(principal.Email)
	if err != nil || !p.HasOwner(owner) {
		return Principal{}, shared.NewForbiddenError("project", "caller is not an owner of the project")
	}
	return principal, nil
}
