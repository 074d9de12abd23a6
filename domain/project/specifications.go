package project

import (
	"context"
	"strings"

	"ddd-skeleton/domain/shared"
)

// HasOwnersSpecification is satisfied by projects with at least one owner
type HasOwnersSpecification struct{}

func (spec HasOwnersSpecification) IsSatisfiedBy(ctx context.Context, entity *Project) bool {
	return entity != nil && len(entity.owners) > 0
}

// ByOwnerSpecification filters projects owned by an e-mail address
type ByOwnerSpecification struct {
	Email string
}

func (spec ByOwnerSpecification) IsSatisfiedBy(ctx context.Context, entity *Project) bool {
	email := strings.TrimSpace(strings.ToLower(spec.Email))
	for _, o := range entity.owners {
		if o.email == email {
			return true
		}
	}
	return false
}

// ByNameSpecification filters projects by exact name
type ByNameSpecification struct {
	Name string
}

func (spec ByNameSpecification) IsSatisfiedBy(ctx context.Context, entity *Project) bool {
	return entity.name == spec.Name
}

// MinBudgetSpecification filters projects whose budget is at least Amount
// in the given currency
type MinBudgetSpecification struct {
	Amount   int64
	Currency string
}

func (spec MinBudgetSpecification) IsSatisfiedBy(ctx context.Context, entity *Project) bool {
	if entity == nil || entity.budget.Currency() != spec.Currency {
		return false
	}
	// 负数下限等同于 0，与 SQL 的 budget_amount >= ? 结果一致
	floor, err := shared.NewMoney(max(spec.Amount, 0), spec.Currency)
	if err != nil {
		return false
	}
	return entity.budget.IsGreaterThanOrEqual(floor)
}

// BudgetCurrencySpecification is satisfied when the budget uses Currency
type BudgetCurrencySpecification struct {
	Currency string
}

func (spec BudgetCurrencySpecification) IsSatisfiedBy(ctx context.Context, entity *Project) bool {
	return entity != nil && entity.budget.Currency() == spec.Currency
}

func NewHasOwnersSpecification() shared.Specification[*Project] {
	return HasOwnersSpecification{}
}
func NewByOwnerSpecification(email string) shared.Specification[*Project] {
	return ByOwnerSpecification{Email: email}
}
func NewByNameSpecification(name string) shared.Specification[*Project] {
	return ByNameSpecification{Name: name}
}
func NewMinBudgetSpecification(amount int64, currency string) shared.Specification[*Project] {
	return MinBudgetSpecification{Amount: amount, Currency: currency}
}

// Rule names reported in ErrDomainViolation errors
const (
	RuleOwnersRequired = "project.owners_required"
	RuleBudgetCurrency = "project.budget_currency"
)

// OwnersRequired every stored project must have at least one owner
func OwnersRequired() shared.Invariant[*Project] {
	return shared.Require[*Project]("project", RuleOwnersRequired, HasOwnersSpecification{}, ErrOwnerRequired.Error())
}

// BudgetCurrency every stored project must keep its budget in currency
func BudgetCurrency(currency string) shared.Invariant[*Project] {
	return shared.Require[*Project]("project", RuleBudgetCurrency,
		BudgetCurrencySpecification{Currency: currency},
		"project budget must be in "+currency)
}
