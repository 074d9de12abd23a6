package project

import (
	"time"

	"ddd-skeleton/domain/project"
)

// CreateProjectRequest 创建项目入参，金额为最小货币单位
type CreateProjectRequest struct {
	ID     int64    `json:"id" yaml:"id" binding:"required,min=1"`
	Name   string   `json:"name" yaml:"name" binding:"required"`
	Budget int64    `json:"budget" yaml:"budget" binding:"min=0"`
	Owners []string `json:"owners" yaml:"owners" binding:"required,min=1"`
}

// AddOwnerRequest 添加负责人入参，Token 为调用方凭证
type AddOwnerRequest struct {
	ProjectID int64  `json:"-"`
	Token     string `json:"-"`
	Email     string `json:"email" binding:"required"`
}

// AllocateBudgetRequest 追加预算入参
type AllocateBudgetRequest struct {
	ProjectID int64  `json:"-"`
	Token     string `json:"-"`
	Amount    int64  `json:"amount" binding:"required,min=1"`
}

// ProjectResponse 项目返回模型
type ProjectResponse struct {
	ID        int64         `json:"id" yaml:"id"`
	Name      string        `json:"name" yaml:"name"`
	Budget    MoneyResponse `json:"budget" yaml:"budget"`
	Owners    []string      `json:"owners" yaml:"owners"`
	Version   int           `json:"version" yaml:"version"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" yaml:"updated_at"`
}

// MoneyResponse 金额返回模型
type MoneyResponse struct {
	Amount   int64  `json:"amount" yaml:"amount"`
	Currency string `json:"currency" yaml:"currency"`
	Display  string `json:"display" yaml:"display"`
}

func toProjectResponse(p *project.Project) *ProjectResponse {
	budget := p.Budget()
	return &ProjectResponse{
		ID:   p.ID(),
		Name: p.Name(),
		Budget: MoneyResponse{
			Amount:   budget.Amount(),
			Currency: budget.Currency(),
			Display:  budget.String(),
		},
		Owners:    p.OwnerEmails(),
		Version:   p.Version(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func toProjectResponses(projects []*project.Project) []*ProjectResponse {
	out := make([]*ProjectResponse, len(projects))
	for i, p := range projects {
		out[i] = toProjectResponse(p)
	}
	return out
}
